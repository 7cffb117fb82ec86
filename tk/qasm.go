package tk

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ErrParse is returned for QASM the parser does not understand.
var ErrParse = errors.New("qasm parse error")

// Pre-compiled regexps for QASM parsing.
var (
	gateRegex       = regexp.MustCompile(`^(\w+)(?:\s*\(\s*(` + paramPattern + `(?:\s*,\s*` + paramPattern + `)*)\s*\))?\s+(\w+\[\d+\](?:\s*,\s*\w+\[\d+\])*)\s*;?$`)
	operandRegex    = regexp.MustCompile(`(\w+)\[(\d+)\]`)
	measureRegex    = regexp.MustCompile(`^measure\s+(\w+)\[(\d+)\]\s*->\s*(\w+)\[(\d+)\]\s*;?$`)
	ifRegex         = regexp.MustCompile(`^if\s*\(\s*(\w+)(?:\[(\d+)\])?\s*==\s*(\d+)\s*\)\s*(.+)$`)
	qregRegex       = regexp.MustCompile(`^qreg\s+(\w+)\[(\d+)\]\s*;?$`)
	cregRegex       = regexp.MustCompile(`^creg\s+(\w+)\[(\d+)\]\s*;?$`)
	barrierRegex    = regexp.MustCompile(`^barrier\s+`)
	postSelectRegex = regexp.MustCompile(`^//\s*postselect\s+(\w+)\[(\d+)\]\s*==\s*([01])$`)
	scalarRegex     = regexp.MustCompile(`^//\s*scalar\s+(\S+)$`)
)

// qasmNames maps IR gate names to their qelib1.inc names.
var qasmNames = map[string]string{
	"H": "h", "X": "x", "Y": "y", "Z": "z",
	"S": "s", "T": "t", "Sdg": "sdg", "Tdg": "tdg",
	"Rx": "rx", "Ry": "ry", "Rz": "rz",
	"CX": "cx", "CZ": "cz", "SWAP": "swap",
	"CRz": "crz", "CRx": "crx", "CU1": "cu1",
	"CCX": "ccx", "CSWAP": "cswap",
	"Reset": "reset",
}

var irNames = func() map[string]string {
	m := make(map[string]string, len(qasmNames)+2)
	for ir, q := range qasmNames {
		m[q] = ir
	}
	m["cnot"] = "CX"
	m["toffoli"] = "CCX"
	return m
}()

// ToQASM generates OpenQASM 2.0 from the circuit. Post-selection and the
// scalar are written as comment pragmas that ParseQASM reads back; the
// post-processing is written as a plain comment.
func (c *Circuit) ToQASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.NumQubits)
	if c.NumBits > 0 {
		fmt.Fprintf(&sb, "creg c[%d];\n", c.NumBits)
	}
	sb.WriteString("\n")

	for _, op := range c.Ops {
		if op.Condition != nil {
			fmt.Fprintf(&sb, "if (c[%d]==%d) ", op.Condition.Bit, op.Condition.Value)
		}
		if op.Name == "Measure" {
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", op.Qubits[0], op.Bits[0])
			continue
		}
		sb.WriteString(qasmNames[op.Name])
		if len(op.Params) > 0 {
			params := make([]string, len(op.Params))
			for i, p := range op.Params {
				params[i] = formatParam(halfTurnsToRadians(p))
			}
			fmt.Fprintf(&sb, "(%s)", strings.Join(params, ", "))
		}
		qubits := make([]string, len(op.Qubits))
		for i, q := range op.Qubits {
			qubits[i] = fmt.Sprintf("q[%d]", q)
		}
		fmt.Fprintf(&sb, " %s;\n", strings.Join(qubits, ", "))
	}

	for _, b := range slices.Sorted(maps.Keys(c.PostSelection)) {
		fmt.Fprintf(&sb, "// postselect c[%d] == %d\n", b, c.PostSelection[b])
	}
	if c.Scalar != 1 {
		fmt.Fprintf(&sb, "// scalar %s\n", strconv.FormatFloat(c.Scalar, 'g', -1, 64))
	}
	if c.PostProcessing != nil {
		fmt.Fprintf(&sb, "// post_process %s\n", c.PostProcessing)
	}
	return sb.String()
}

// register maps a QASM register name to its offset in the flat IR register.
type register struct {
	offset, size int
}

type qasmParser struct {
	circuit *Circuit
	qregs   map[string]register
	cregs   map[string]register
}

// ParseQASM parses OpenQASM 2.0 text into a circuit. Several quantum and
// classical registers are flattened in declaration order.
func ParseQASM(qasm string) (*Circuit, error) {
	p := &qasmParser{
		circuit: NewCircuit(0, 0),
		qregs:   map[string]register{},
		cregs:   map[string]register{},
	}
	for n, line := range strings.Split(qasm, "\n") {
		if err := p.parseLine(strings.TrimSpace(line)); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, n+1, err)
		}
	}
	return p.circuit, nil
}

func (p *qasmParser) parseLine(line string) error {
	switch {
	case line == "":
		return nil
	case strings.HasPrefix(line, "//"):
		return p.parsePragma(line)
	case strings.HasPrefix(line, "OPENQASM"), strings.HasPrefix(line, "include"):
		return nil
	case barrierRegex.MatchString(line):
		return nil
	}

	if matches := qregRegex.FindStringSubmatch(line); matches != nil {
		n, _ := strconv.Atoi(matches[2])
		p.qregs[matches[1]] = register{offset: p.circuit.NumQubits, size: n}
		p.circuit.NumQubits += n
		return nil
	}
	if matches := cregRegex.FindStringSubmatch(line); matches != nil {
		n, _ := strconv.Atoi(matches[2])
		p.cregs[matches[1]] = register{offset: p.circuit.NumBits, size: n}
		p.circuit.NumBits += n
		return nil
	}

	// Classically controlled operation: "if (c[0]==1) x q[1];"
	if matches := ifRegex.FindStringSubmatch(line); matches != nil {
		bit, err := p.resolve(p.cregs, matches[1], matches[2])
		if err != nil {
			return err
		}
		value, _ := strconv.Atoi(matches[3])
		if value > 1 {
			return fmt.Errorf("condition value %d on a single bit", value)
		}
		if err := p.parseOp(strings.TrimSpace(matches[4])); err != nil {
			return err
		}
		p.circuit.Conditional(bit, value)
		return nil
	}

	return p.parseOp(line)
}

func (p *qasmParser) parseOp(line string) error {
	// Measurement: "measure q[0] -> c[0];"
	if matches := measureRegex.FindStringSubmatch(line); matches != nil {
		q, err := p.resolve(p.qregs, matches[1], matches[2])
		if err != nil {
			return err
		}
		b, err := p.resolve(p.cregs, matches[3], matches[4])
		if err != nil {
			return err
		}
		p.circuit.Measure(q, b)
		return nil
	}

	matches := gateRegex.FindStringSubmatch(line)
	if matches == nil {
		return fmt.Errorf("unrecognised statement %q", line)
	}
	name, ok := irNames[strings.ToLower(matches[1])]
	if !ok {
		return fmt.Errorf("unknown gate %q", matches[1])
	}

	var params []float64
	if matches[2] != "" {
		for _, s := range strings.Split(matches[2], ",") {
			val, ok := parseParamExpr(s)
			if !ok {
				return fmt.Errorf("bad parameter %q", s)
			}
			params = append(params, radiansToHalfTurns(val))
		}
	}

	var qubits []int
	for _, operand := range operandRegex.FindAllStringSubmatch(matches[3], -1) {
		q, err := p.resolve(p.qregs, operand[1], operand[2])
		if err != nil {
			return err
		}
		qubits = append(qubits, q)
	}

	spec := gateSpecs[name]
	if len(qubits) != spec.qubits || len(params) != spec.params {
		return fmt.Errorf("%s takes %d qubits and %d params", matches[1], spec.qubits, spec.params)
	}
	p.circuit.Ops = append(p.circuit.Ops, Op{Name: name, Qubits: qubits, Params: params})
	return nil
}

func (p *qasmParser) parsePragma(line string) error {
	if matches := postSelectRegex.FindStringSubmatch(line); matches != nil {
		b, err := p.resolve(p.cregs, matches[1], matches[2])
		if err != nil {
			return err
		}
		value, _ := strconv.Atoi(matches[3])
		p.circuit.PostSelect(map[int]int{b: value})
		return nil
	}
	if matches := scalarRegex.FindStringSubmatch(line); matches != nil {
		x, err := strconv.ParseFloat(matches[1], 64)
		if err != nil {
			return fmt.Errorf("bad scalar %q", matches[1])
		}
		p.circuit.Scale(x)
	}
	return nil
}

// resolve maps reg[idx] to a flat index. A missing index means the first
// bit of the register, as in "if(c1==1)".
func (p *qasmParser) resolve(regs map[string]register, name, idx string) (int, error) {
	reg, ok := regs[name]
	if !ok {
		return 0, fmt.Errorf("undeclared register %q", name)
	}
	i := 0
	if idx != "" {
		i, _ = strconv.Atoi(idx)
	}
	if i >= reg.size {
		return 0, fmt.Errorf("%s[%d] out of range", name, i)
	}
	return reg.offset + i, nil
}
