package main

import (
	"fmt"
	"strings"
)

// renderMenu renders the example picker in place of the side panel.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Examples"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range catalog {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(catalog)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 30)))
	sb.WriteString("\n")

	for i, ex := range catalog[m.menuCat].items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ " + fmt.Sprintf("%-16s", ex.name)))
		} else {
			sb.WriteString("   " + menuNormalStyle.Render(fmt.Sprintf("%-16s", ex.name)))
		}
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render("   " + ex.description))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Tab  ⏎ Load  Esc ✕"))
	return sb.String()
}

// updateMenu moves the picker; it returns true when an example was chosen.
func (m *Model) updateMenu(key string) bool {
	switch key {
	case "esc":
		m.menuOpen = false
	case "up", "k":
		if m.menuItem > 0 {
			m.menuItem--
		}
	case "down", "j":
		if m.menuItem < len(catalog[m.menuCat].items)-1 {
			m.menuItem++
		}
	case "left", "h":
		if m.menuCat > 0 {
			m.menuCat--
			m.menuItem = 0
		}
	case "right", "l":
		if m.menuCat < len(catalog)-1 {
			m.menuCat++
			m.menuItem = 0
		}
	case "enter":
		m.menuOpen = false
		return true
	}
	return false
}
