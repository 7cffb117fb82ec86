package statevector

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"discocirq/tk"
)

// ErrShots is returned when a run asks for no shots.
var ErrShots = errors.New("shots must be positive")

// Backend runs tk circuits shot by shot on a local state vector.
type Backend struct {
	log zerolog.Logger

	mu  sync.Mutex
	src *rand.PCG
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Backend) { b.log = l.With().Str("component", "statevector").Logger() }
}

// WithSeed makes sampling reproducible.
func WithSeed(seed uint64) Option {
	return func(b *Backend) { b.src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15) }
}

// New returns a backend seeded from the clock unless WithSeed is given.
func New(opts ...Option) *Backend {
	b := &Backend{log: zerolog.Nop()}
	seed := uint64(time.Now().UnixNano())
	b.src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Uint64 makes the backend a rand.Source shared by all its runs.
func (b *Backend) Uint64() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.src.Uint64()
}

// GetCounts runs the circuit the given number of times and counts the
// values of the classical register. Post-selection is left to the caller.
func (b *Backend) GetCounts(ctx context.Context, c *tk.Circuit, shots int) (tk.Counts, error) {
	if shots <= 0 {
		return nil, ErrShots
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid circuit: %w", err)
	}

	jobID := uuid.New()
	log := b.log.With().Str("job_id", jobID.String()).Logger()
	log.Debug().
		Int("qubits", c.NumQubits).
		Int("bits", c.NumBits).
		Int("ops", len(c.Ops)).
		Int("shots", shots).
		Msg("Submitting circuit")
	start := time.Now()

	var (
		counts tk.Counts
		err    error
	)
	if terminalMeasurements(c) {
		counts, err = b.sampleFinal(ctx, c, shots)
	} else {
		counts, err = b.sampleShots(ctx, c, shots)
	}
	if err != nil {
		log.Error().Err(err).Msg("Run failed")
		return nil, err
	}

	log.Info().
		Int("outcomes", len(counts)).
		Dur("elapsed", time.Since(start)).
		Msg("Circuit run complete")
	return counts, nil
}

// terminalMeasurements reports whether the circuit can be simulated once
// and sampled: no reset, no condition, and nothing acts on a measured qubit.
func terminalMeasurements(c *tk.Circuit) bool {
	measured := make(map[int]bool)
	for _, op := range c.Ops {
		if op.Condition != nil || op.Name == "Reset" {
			return false
		}
		for _, q := range op.Qubits {
			if measured[q] {
				return false
			}
		}
		if op.Name == "Measure" {
			measured[op.Qubits[0]] = true
		}
	}
	return true
}

// sampleFinal simulates the unitary part once and draws every shot from
// the final distribution.
func (b *Backend) sampleFinal(ctx context.Context, c *tk.Circuit, shots int) (tk.Counts, error) {
	state := NewStateVector(c.NumQubits)
	var measures []tk.Op
	for _, op := range c.Ops {
		if op.Name == "Measure" {
			measures = append(measures, op)
			continue
		}
		if err := state.ApplyOp(op); err != nil {
			return nil, err
		}
	}

	dist := distuv.NewCategorical(state.Probabilities(), b)
	counts := make(tk.Counts)
	bits := make([]byte, c.NumBits)
	for shot := range shots {
		if shot%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		index := int(dist.Rand())
		for i := range bits {
			bits[i] = '0'
		}
		for _, m := range measures {
			if index&(1<<m.Qubits[0]) != 0 {
				bits[m.Bits[0]] = '1'
			}
		}
		counts[string(bits)]++
	}
	return counts, nil
}

// sampleShots replays the whole circuit for every shot, sampling each
// measurement as it happens.
func (b *Backend) sampleShots(ctx context.Context, c *tk.Circuit, shots int) (tk.Counts, error) {
	counts := make(tk.Counts)
	for range shots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key, err := b.runShot(c)
		if err != nil {
			return nil, err
		}
		counts[key]++
	}
	return counts, nil
}

func (b *Backend) runShot(c *tk.Circuit) (string, error) {
	state := NewStateVector(c.NumQubits)
	bits := make([]int, c.NumBits)
	for _, op := range c.Ops {
		if cond := op.Condition; cond != nil && bits[cond.Bit] != cond.Value {
			continue
		}
		switch op.Name {
		case "Measure":
			bits[op.Bits[0]] = b.measure(state, op.Qubits[0])
		case "Reset":
			if b.measure(state, op.Qubits[0]) == 1 {
				state.applyX(op.Qubits[0])
			}
		default:
			if err := state.ApplyOp(op); err != nil {
				return "", err
			}
		}
	}
	var sb strings.Builder
	for _, v := range bits {
		sb.WriteByte(byte('0' + v))
	}
	return sb.String(), nil
}

// measure samples qubit q and collapses the state onto the outcome.
func (b *Backend) measure(state *StateVector, q int) int {
	p := min(max(state.Probability1(q), 0), 1)
	outcome := int(distuv.Bernoulli{P: p, Src: b}.Rand())
	state.Collapse(q, outcome)
	return outcome
}
