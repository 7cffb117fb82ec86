package quantum

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"discocirq/monoidal"
	"discocirq/tensor"
	"discocirq/tk"
)

// Backend runs tk circuits and counts the values of their classical
// registers.
type Backend interface {
	GetCounts(ctx context.Context, c *tk.Circuit, shots int) (tk.Counts, error)
}

// Compilation rewrites a circuit before it is submitted.
type Compilation interface {
	Apply(c *tk.Circuit) *tk.Circuit
}

// DefaultShots is the number of shots when none is given.
const DefaultShots = 1 << 10

// CountsOptions configures a run on a backend.
type CountsOptions struct {
	Shots       int
	Compilation Compilation
	MeasureAll  bool
	Logger      zerolog.Logger
}

// CountsOption sets a field of CountsOptions.
type CountsOption func(*CountsOptions)

func WithShots(n int) CountsOption { return func(o *CountsOptions) { o.Shots = n } }

func WithCompilation(c Compilation) CountsOption {
	return func(o *CountsOptions) { o.Compilation = c }
}

// WithMeasureAll measures the qubits left unmeasured by the circuit.
func WithMeasureAll() CountsOption { return func(o *CountsOptions) { o.MeasureAll = true } }

func WithCountsLogger(l zerolog.Logger) CountsOption {
	return func(o *CountsOptions) { o.Logger = l.With().Str("component", "counts").Logger() }
}

func countsOptions(opts []CountsOption) CountsOptions {
	o := CountsOptions{Shots: DefaultShots, Logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// GetCounts returns the probability of each output bitstring. With a nil
// backend the distribution is computed exactly. Otherwise the circuit is
// translated, submitted, normalised, post-selected and scaled by the square
// of the circuit scalar.
func (c *Circuit) GetCounts(ctx context.Context, backend Backend, opts ...CountsOption) (map[string]float64, error) {
	if backend == nil {
		return c.exactCounts()
	}
	probs, _, err := c.runCounts(ctx, backend, countsOptions(opts))
	return probs, err
}

func (c *Circuit) exactCounts() (map[string]float64, error) {
	closed, err := c.InitAndDiscard()
	if err != nil {
		return nil, err
	}
	probs, err := closed.Measure(true)
	if err != nil {
		return nil, err
	}
	n := closed.Cod().Len()
	out := make(map[string]float64)
	for i, p := range probs {
		if p == 0 {
			continue
		}
		bits, err := IndexToBitstring(i, n)
		if err != nil {
			return nil, err
		}
		out[formatBits(bits)] = p
	}
	return out, nil
}

// runCounts returns the post-selected probabilities and the submitted
// circuit.
func (c *Circuit) runCounts(ctx context.Context, backend Backend, o CountsOptions) (map[string]float64, *tk.Circuit, error) {
	circ, err := ToTk(c)
	if err != nil {
		return nil, nil, err
	}
	if o.Compilation != nil {
		circ = o.Compilation.Apply(circ)
	}
	width := circ.NumBits
	if o.MeasureAll {
		circ.MeasureAll()
	}

	o.Logger.Debug().
		Str("circuit", circ.String()).
		Int("shots", o.Shots).
		Msg("Submitting circuit")
	counts, err := backend.GetCounts(ctx, circ, o.Shots)
	if err != nil {
		return nil, nil, fmt.Errorf("backend: %w", err)
	}
	if len(counts) == 0 {
		return nil, nil, ErrEmptyCounts
	}

	keys := slices.Sorted(maps.Keys(counts))
	shots := make([]float64, len(keys))
	for i, k := range keys {
		shots[i] = float64(counts[k])
	}
	total := floats.Sum(shots)
	if total == 0 {
		return nil, nil, ErrEmptyCounts
	}
	floats.Scale(circ.Scalar*circ.Scalar/total, shots)

	probs := make(map[string]float64)
	for i, k := range keys {
		out, ok := postSelect(padKey(k, width), circ.PostSelection)
		if ok {
			probs[out] += shots[i]
		}
	}
	o.Logger.Debug().
		Int("outcomes", len(counts)).
		Int("selected", len(probs)).
		Msg("Counts received")
	return probs, circ, nil
}

func padKey(k string, width int) string {
	if len(k) >= width {
		return k
	}
	return k + strings.Repeat("0", width-len(k))
}

// postSelect drops the selected characters of key, reporting whether they
// hold the selected values.
func postSelect(key string, selection map[int]int) (string, bool) {
	var sb strings.Builder
	for i := range len(key) {
		v, ok := selection[i]
		if !ok {
			sb.WriteByte(key[i])
			continue
		}
		if int(key[i]-'0') != v {
			return "", false
		}
	}
	return sb.String(), true
}

// EvalBackend runs the circuit on backend and returns the distribution over
// output bits as a state, with the classical post-processing applied.
func (c *Circuit) EvalBackend(ctx context.Context, backend Backend, opts ...CountsOption) (*tensor.Tensor, error) {
	o := countsOptions(opts)
	probs, circ, err := c.runCounts(ctx, backend, o)
	if err != nil {
		return nil, err
	}
	width := -1
	for k := range probs {
		if width >= 0 && len(k) != width {
			return nil, fmt.Errorf("outcomes %q of different lengths", slices.Collect(maps.Keys(probs)))
		}
		width = len(k)
	}
	width = max(width, 0)
	if len(probs) == 0 {
		width = circ.NumBits - len(circ.PostSelection)
		if post, ok := circ.PostProcessing.(*Circuit); ok {
			width = post.Dom().Len()
		}
		o.Logger.Warn().Int("shots", o.Shots).Msg("Post-selection discarded every shot")
	}
	data := make([]complex128, 1<<width)
	for k, p := range probs {
		bits, err := parseBits(k)
		if err != nil {
			return nil, err
		}
		data[BitstringToIndex(bits)] = complex(p, 0)
	}
	state, err := tensor.New(nil, dims(width), data)
	if err != nil {
		return nil, err
	}
	if circ.PostProcessing == nil {
		return state, nil
	}
	post, ok := circ.PostProcessing.(*Circuit)
	if !ok {
		return nil, fmt.Errorf("%w: post-processing %s", ErrNotCircuit, circ.PostProcessing)
	}
	if post.Dom().Count(monoidal.KindQubit)+post.Cod().Count(monoidal.KindQubit) > 0 {
		return nil, fmt.Errorf("%w: quantum post-processing %s", ErrNotImplemented, post)
	}
	m, err := post.EvalMixed()
	if err != nil {
		return nil, err
	}
	result, err := tensor.Classical(state).Then(m)
	if err != nil {
		return nil, err
	}
	o.Logger.Debug().Str("post_processing", post.String()).Msg("Applied post-processing")
	return result.Array(), nil
}
