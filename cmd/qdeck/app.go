package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"discocirq/internal/config"
	"discocirq/internal/logger"
	"discocirq/quantum"
	"discocirq/tk"
	"discocirq/tk/statevector"
)

// app holds what the Before hook sets up for every command.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func newApp() *cli.App {
	a := &app{log: zerolog.Nop()}
	return &cli.App{
		Name:  "qdeck",
		Usage: "step through diagram rewrites and run quantum circuits",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn, error or disabled"},
		},
		Before: a.setup,
		Commands: []*cli.Command{
			{
				Name:      "normalize",
				Usage:     "step through the normal form of a built-in diagram",
				ArgsUsage: "[example]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "left", Usage: "interchange boxes to the left"},
					&cli.BoolFlag{Name: "print", Usage: "print every frame instead of opening the TUI"},
				},
				Action: a.normalize,
			},
			{
				Name:   "examples",
				Usage:  "list the built-in diagrams",
				Action: a.examples,
			},
			{
				Name:      "qasm",
				Usage:     "read an OpenQASM file as a circuit diagram",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "eval", Usage: "print the exact output distribution"},
				},
				Action: a.qasm,
			},
			{
				Name:      "run",
				Usage:     "run an OpenQASM file on the local state-vector backend",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "shots", Usage: "number of shots (default from QDECK_SHOTS)"},
					&cli.Int64Flag{Name: "seed", Usage: "sampler seed (default from QDECK_SEED)"},
					&cli.BoolFlag{Name: "exact", Usage: "compute the distribution without sampling"},
				},
				Action: a.run,
			},
			{
				Name:      "export",
				Usage:     "write a built-in circuit as OpenQASM",
				ArgsUsage: "<example>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "file name under QDECK_EXPORT_DIR, stdout when empty"},
				},
				Action: a.export,
			},
		},
	}
}

func (a *app) setup(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.log = logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Out: c.App.ErrWriter})
	return nil
}

func (a *app) normalize(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		name = "alice-loves-bob"
	}
	ex, err := findExample(name)
	if err != nil {
		return err
	}

	if c.Bool("print") {
		d, err := ex.build()
		if err != nil {
			return err
		}
		fs, err := frames(d, c.Bool("left"))
		for i, frame := range fs {
			fmt.Fprintf(c.App.Writer, "── frame %d/%d ──\n%s\n\n", i+1, len(fs), renderDiagram(frame, -1))
		}
		if err != nil {
			a.log.Warn().Err(err).Str("example", ex.name).Msg("normalisation stopped")
			fmt.Fprintf(c.App.Writer, "stopped: %v\n", err)
		}
		return nil
	}

	m := newModel(ex, c.Bool("left"), a.log)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(c.Context)).Run()
	return err
}

func (a *app) examples(c *cli.Context) error {
	table := tablewriter.NewWriter(c.App.Writer)
	table.SetHeader([]string{"Name", "Kind", "Description"})
	for _, ex := range allExamples() {
		table.Append([]string{ex.name, ex.category, ex.description})
	}
	table.Render()
	return nil
}

// loadQASM reads a QASM file into a circuit diagram.
func (a *app) loadQASM(c *cli.Context) (*quantum.Circuit, error) {
	path := c.Args().First()
	if path == "" {
		return nil, fmt.Errorf("%s: missing <file>", c.Command.Name)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tc, err := tk.ParseQASM(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.log.Debug().Str("file", path).Int("qubits", tc.NumQubits).Int("bits", tc.NumBits).Int("ops", len(tc.Ops)).Msg("parsed")
	return quantum.FromTkCircuit(tc)
}

func (a *app) qasm(c *cli.Context) error {
	circ, err := a.loadQASM(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, circ)
	if !c.Bool("eval") {
		return nil
	}
	probs, err := circ.Measure(true)
	if err != nil {
		return err
	}
	n := circ.Cod().Len()
	dist := make(map[string]float64, len(probs))
	for i, p := range probs {
		bits, err := quantum.IndexToBitstring(i, n)
		if err != nil {
			return err
		}
		dist[bitsKey(bits)] = p
	}
	writeDistribution(c.App.Writer, dist)
	return nil
}

func (a *app) run(c *cli.Context) error {
	circ, err := a.loadQASM(c)
	if err != nil {
		return err
	}

	var backend quantum.Backend
	if !c.Bool("exact") {
		seed := a.cfg.Seed
		if c.IsSet("seed") {
			seed = c.Int64("seed")
		}
		opts := []statevector.Option{statevector.WithLogger(a.log)}
		if seed != 0 {
			opts = append(opts, statevector.WithSeed(uint64(seed)))
		}
		backend = statevector.New(opts...)
	}
	shots := a.cfg.Shots
	if c.IsSet("shots") {
		shots = c.Int("shots")
	}

	counts, err := circ.GetCounts(c.Context, backend,
		quantum.WithShots(shots),
		quantum.WithCountsLogger(a.log),
	)
	if err != nil {
		return err
	}
	writeDistribution(c.App.Writer, counts)
	return nil
}

func (a *app) export(c *cli.Context) error {
	name := c.Args().First()
	ex, err := findExample(name)
	if err != nil {
		return err
	}
	if !ex.circuit {
		return fmt.Errorf("%s is not a circuit", ex.name)
	}
	d, err := ex.build()
	if err != nil {
		return err
	}
	circ, err := quantum.FromDiagram(d)
	if err != nil {
		return err
	}
	tc, err := quantum.ToTk(circ)
	if err != nil {
		return err
	}
	qasm := tc.ToQASM()

	out := c.String("out")
	if out == "" {
		_, err = io.WriteString(c.App.Writer, qasm)
		return err
	}
	path := filepath.Join(a.cfg.Export, out)
	if err := os.WriteFile(path, []byte(qasm), 0o644); err != nil {
		return err
	}
	a.log.Info().Str("example", ex.name).Str("path", path).Msg("exported")
	return nil
}

func bitsKey(bits []int) string {
	b := make([]byte, len(bits))
	for i, v := range bits {
		b[i] = byte('0' + v)
	}
	return string(b)
}

// writeDistribution prints outcomes in bitstring order with their probabilities.
func writeDistribution(w io.Writer, dist map[string]float64) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Bits", "Probability"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, k := range slices.Sorted(maps.Keys(dist)) {
		label := k
		if label == "" {
			label = "(none)"
		}
		table.Append([]string{label, strconv.FormatFloat(dist[k], 'f', 4, 64)})
	}
	table.Render()
}
