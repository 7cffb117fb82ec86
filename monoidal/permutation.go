package monoidal

import "fmt"

// SwapFactory builds the symmetry on two single-ob types.
type SwapFactory func(left, right Ty) Box

// Permutation returns the diagram sending input wire i to output position
// perm[i], decomposed into adjacent swaps by bubble passes from the left.
func Permutation(dom Ty, perm []int, factory SwapFactory) (*Diagram, error) {
	n := dom.Len()
	if len(perm) != n {
		return nil, fmt.Errorf("%w: %v on %d wires", ErrPermutation, perm, n)
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return nil, fmt.Errorf("%w: %v", ErrPermutation, perm)
		}
		seen[p] = true
	}
	if factory == nil {
		factory = NewSwap
	}

	cur := make([]int, n)
	for i := range cur {
		cur[i] = i
	}
	var boxes []Box
	var offsets []int
	for moved := true; moved; {
		moved = false
		for i := 0; i+1 < n; i++ {
			if perm[cur[i]] > perm[cur[i+1]] {
				boxes = append(boxes, factory(dom.Slice(cur[i], cur[i]+1), dom.Slice(cur[i+1], cur[i+1]+1)))
				offsets = append(offsets, i)
				cur[i], cur[i+1] = cur[i+1], cur[i]
				moved = true
			}
		}
	}
	cod := make([]Ob, n)
	for i, p := range perm {
		cod[p] = dom.At(i)
	}
	return NewDiagram(dom, NewTy(cod...), boxes, offsets)
}

// SwapWires returns the symmetry left @ right -> right @ left.
func SwapWires(left, right Ty, factory SwapFactory) (*Diagram, error) {
	dom, err := left.Tensor(right)
	if err != nil {
		return nil, err
	}
	perm := make([]int, dom.Len())
	for i := range perm {
		if i < left.Len() {
			perm[i] = i + right.Len()
		} else {
			perm[i] = i - left.Len()
		}
	}
	return Permutation(dom, perm, factory)
}
