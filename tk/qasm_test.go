package tk

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseNamedCregs(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[3];
creg c0[1];
creg c1[1];

h q[1];
cx q[1], q[2];
cx q[0], q[1];
h q[0];
measure q[0] -> c0[0];
measure q[1] -> c1[0];

if(c1==1) x q[2];
if(c0==1) z q[2];`

	c, err := ParseQASM(qasm)
	if err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}

	// Expected ops in order:
	// 0: H q[1]
	// 1: CX q[1],q[2]
	// 2: CX q[0],q[1]
	// 3: H q[0]
	// 4: Measure q[0] -> bit 0
	// 5: Measure q[1] -> bit 1
	// 6: if(c1==1) X q[2] -> condition on bit 1
	// 7: if(c0==1) Z q[2] -> condition on bit 0
	if len(c.Ops) != 8 {
		t.Fatalf("expected 8 ops, got %d", len(c.Ops))
	}
	if c.NumQubits != 3 || c.NumBits != 2 {
		t.Fatalf("expected registers (3, 2), got (%d, %d)", c.NumQubits, c.NumBits)
	}

	op5 := c.Ops[5]
	if op5.Name != "Measure" || op5.Qubits[0] != 1 || op5.Bits[0] != 1 {
		t.Errorf("op 5: expected Measure(1, 1), got %s", op5)
	}

	op6 := c.Ops[6]
	if op6.Name != "X" || op6.Qubits[0] != 2 || op6.Condition == nil || op6.Condition.Bit != 1 {
		t.Errorf("op 6: expected X on q[2] conditioned on bit 1, got %s", op6)
	}

	op7 := c.Ops[7]
	if op7.Name != "Z" || op7.Qubits[0] != 2 || op7.Condition == nil || op7.Condition.Bit != 0 {
		t.Errorf("op 7: expected Z on q[2] conditioned on bit 0, got %s", op7)
	}
}

func TestParseOldCregFormat(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[3];
creg c[3];

h q[0];
measure q[0] -> c[0];
if (c[0]==1) x q[1];`

	c, err := ParseQASM(qasm)
	if err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}
	if len(c.Ops) != 3 {
		t.Fatalf("expected 3 ops (H + Measure + classically-controlled X), got %d", len(c.Ops))
	}

	op := c.Ops[2]
	if op.Name != "X" || op.Qubits[0] != 1 || op.Condition == nil || op.Condition.Bit != 0 || op.Condition.Value != 1 {
		t.Errorf("op 2: expected X on q[1] conditioned on c[0]==1, got %s", op)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		qasm string
	}{
		{"unknown gate", "qreg q[1];\nfoo q[0];"},
		{"wrong arity", "qreg q[2];\ncx q[0];"},
		{"missing param", "qreg q[1];\nrx q[0];"},
		{"undeclared register", "qreg q[1];\nh r[0];"},
		{"out of range", "qreg q[1];\nh q[3];"},
		{"garbage", "qreg q[1];\nthis is not qasm"},
	}
	for _, tt := range tests {
		if _, err := ParseQASM(tt.qasm); !errors.Is(err, ErrParse) {
			t.Errorf("%s: expected ErrParse, got %v", tt.name, err)
		}
	}
}

func TestRoundTripQASM(t *testing.T) {
	// Build a circuit with a conditional, export to QASM, re-parse
	c := NewCircuit(3, 1)
	c.H(0).Measure(0, 0).X(2).Conditional(0, 1)
	c.PostSelect(map[int]int{0: 1}).Scale(2)

	qasm := c.ToQASM()

	c2, err := ParseQASM(qasm)
	if err != nil {
		t.Fatalf("round-trip: %v", err)
	}
	if len(c2.Ops) != 3 {
		t.Fatalf("round-trip: expected 3 ops, got %d", len(c2.Ops))
	}

	op := c2.Ops[2]
	if op.Name != "X" || op.Qubits[0] != 2 || op.Condition == nil || op.Condition.Bit != 0 {
		t.Errorf("round-trip op 2: expected X q[2] conditioned on bit 0, got %s", op)
	}
	if c2.PostSelection[0] != 1 || len(c2.PostSelection) != 1 {
		t.Errorf("round-trip post-selection: got %v", c2.PostSelection)
	}
	if c2.Scalar != 2 {
		t.Errorf("round-trip scalar: got %g", c2.Scalar)
	}
	if c2.String() != c.String() {
		t.Errorf("round-trip repr:\n got %s\nwant %s", c2, c)
	}
}

func TestParseParamExpr(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		// Plain numbers
		{"1.5707", 1.5707, true},
		{"3.14", 3.14, true},
		{"-0.5", -0.5, true},
		{"0", 0, true},
		{"42", 42, true},

		// Pi constant
		{"pi", math.Pi, true},
		{"PI", math.Pi, true},
		{"Pi", math.Pi, true},

		// Pi fractions
		{"pi/2", math.Pi / 2, true},
		{"pi/4", math.Pi / 4, true},
		{"pi/3", math.Pi / 3, true},
		{"pi/8", math.Pi / 8, true},

		// Coefficients
		{"2pi", 2 * math.Pi, true},
		{"2*pi", 2 * math.Pi, true},
		{"3pi/4", 3 * math.Pi / 4, true},
		{"3*pi/4", 3 * math.Pi / 4, true},
		{"2*pi/3", 2 * math.Pi / 3, true},

		// Negative
		{"-pi", -math.Pi, true},
		{"-pi/2", -math.Pi / 2, true},
		{"-3*pi/4", -3 * math.Pi / 4, true},
		{"-2pi", -2 * math.Pi, true},

		// Whitespace
		{" pi ", math.Pi, true},
		{" pi / 2 ", math.Pi / 2, true},
		{" 3 * pi / 4 ", 3 * math.Pi / 4, true},

		// Invalid
		{"", 0, false},
		{"abc", 0, false},
		{"pi/0", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseParamExpr(tt.input)
		if ok != tt.ok {
			t.Errorf("parseParamExpr(%q): ok=%v, want ok=%v", tt.input, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-10 {
			t.Errorf("parseParamExpr(%q) = %g, want %g", tt.input, got, tt.want)
		}
	}
}

func TestFormatParam(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{math.Pi, "pi"},
		{math.Pi / 2, "pi/2"},
		{math.Pi / 4, "pi/4"},
		{math.Pi / 3, "pi/3"},
		{3 * math.Pi / 4, "3*pi/4"},
		{-math.Pi, "-pi"},
		{-math.Pi / 2, "-pi/2"},
		{2 * math.Pi, "2*pi"},
		{1.5, "1.5"},
		{0, "0"},
		{0.01, "0.01"},
	}

	for _, tt := range tests {
		got := formatParam(tt.input)
		if got != tt.want {
			t.Errorf("formatParam(%g) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatHalfTurns(t *testing.T) {
	tests := map[float64]string{0.5: "pi/2", 1: "pi", -0.25: "-pi/4", 1.5: "3*pi/2"}
	for input, want := range tests {
		if got := FormatHalfTurns(input); got != want {
			t.Errorf("FormatHalfTurns(%g) = %q, want %q", input, got, want)
		}
	}
}

func TestPiParamQASMRoundTrip(t *testing.T) {
	// Angles are half-turns in the IR and radians in QASM
	c := NewCircuit(2, 0)
	c.Rx(0.5, 0).Ry(0.75, 1).Rz(-1, 0)

	qasm := c.ToQASM()
	for _, want := range []string{"rx(pi/2) q[0];", "ry(3*pi/4) q[1];", "rz(-pi) q[0];"} {
		if !strings.Contains(qasm, want) {
			t.Errorf("expected %q in QASM, got:\n%s", want, qasm)
		}
	}

	c2, err := ParseQASM(qasm)
	if err != nil {
		t.Fatalf("pi round-trip: %v", err)
	}
	if len(c2.Ops) != 3 {
		t.Fatalf("pi round-trip: expected 3 ops, got %d", len(c2.Ops))
	}

	want := []float64{0.5, 0.75, -1}
	for i, w := range want {
		if math.Abs(c2.Ops[i].Params[0]-w) > 1e-10 {
			t.Errorf("op %d param: got %g, want %g", i, c2.Ops[i].Params[0], w)
		}
	}
}

func TestPiParamTwoQubitQASMRoundTrip(t *testing.T) {
	c := NewCircuit(3, 0)
	c.CRx(0.25, 0, 1)

	qasm := c.ToQASM()
	if !strings.Contains(qasm, "crx(pi/4) q[0], q[1];") {
		t.Errorf("expected 'crx(pi/4) q[0], q[1];' in QASM, got:\n%s", qasm)
	}

	c2, err := ParseQASM(qasm)
	if err != nil {
		t.Fatalf("CRx round-trip: %v", err)
	}
	if len(c2.Ops) != 1 {
		t.Fatalf("CRx round-trip: expected 1 op, got %d", len(c2.Ops))
	}

	op := c2.Ops[0]
	if op.Name != "CRx" || op.Qubits[0] != 0 || op.Qubits[1] != 1 {
		t.Errorf("CRx op: got %s", op)
	}
	if math.Abs(op.Params[0]-0.25) > 1e-10 {
		t.Errorf("CRx param: got %g, want 0.25", op.Params[0])
	}
}

func TestParseParamsValidation(t *testing.T) {
	if params := ParseParams("pi/2"); len(params) != 1 {
		t.Errorf("ParseParams('pi/2') should return 1 param, got %v", params)
	}
	if params := ParseParams("pi/2,pi/4"); len(params) != 2 {
		t.Errorf("ParseParams('pi/2,pi/4') should return 2 params, got %v", params)
	}
	if params := ParseParams("abc"); params != nil {
		t.Errorf("ParseParams('abc') should return nil, got %v", params)
	}
	if params := ParseParams("pi/2,garbage"); params != nil {
		t.Errorf("ParseParams('pi/2,garbage') should return nil, got %v", params)
	}
	if params := ParseParams(""); params != nil {
		t.Errorf("ParseParams('') should return nil, got %v", params)
	}
}
