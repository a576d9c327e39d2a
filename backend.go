package qkern

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

/*
Backend executes a circuit for a number of independent shots and returns the
tallied classical outcomes. Implementations must be safe for concurrent Run
calls; the estimator fans kernel-matrix entries out across goroutines.
*/
type Backend interface {
	Name() string
	Run(ctx context.Context, c *Circuit, shots int) (*Result, error)
}

// Result is the outcome of one shot batch on a backend.
type Result struct {
	JobID    string
	Backend  string
	Shots    int
	Counts   Counts
	Duration time.Duration
}

/*
Simulator is the reference backend: it evolves the exact state vector of the
circuit once, then samples the requested number of shots from the final
Born-rule distribution. Sampling is driven by a seeded source so runs are
reproducible.
*/
type Simulator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	metrics *Metrics
}

// NewSimulator creates a simulator backend with a seeded outcome sampler.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{
		rng:     rand.New(rand.NewSource(seed)),
		metrics: newMetrics(),
	}
}

func (s *Simulator) Name() string { return "statevector_simulator" }

// Metrics exposes run accounting for this backend.
func (s *Simulator) Metrics() *Metrics { return s.metrics }

// Run samples shot outcomes for the circuit's measured qubits.
func (s *Simulator) Run(ctx context.Context, c *Circuit, shots int) (*Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if shots < 1 {
		return nil, fmt.Errorf("shot count must be positive, got %d", shots)
	}
	if !c.measured() {
		return nil, fmt.Errorf("circuit has no measurements to sample")
	}

	sv := NewStateVector(c.Qubits())
	if err := c.evolve(sv); err != nil {
		return nil, fmt.Errorf("simulating circuit: %w", err)
	}
	probs := sv.Probabilities()

	counts := make(Counts)
	s.mu.Lock()
	for shot := 0; shot < shots; shot++ {
		r := s.rng.Float64()
		cumulative := 0.0
		index := len(probs) - 1
		for i, p := range probs {
			cumulative += p
			if r <= cumulative {
				index = i
				break
			}
		}
		counts[readout(c, index)]++
	}
	s.mu.Unlock()

	s.metrics.recordRun(shots, start)
	return &Result{
		JobID:    uuid.NewString(),
		Backend:  s.Name(),
		Shots:    shots,
		Counts:   counts,
		Duration: time.Since(start),
	}, nil
}

// readout maps a sampled basis-state index onto the classical register via
// the circuit's measure ops. Classical bit 0 ends up rightmost.
func readout(c *Circuit, index int) string {
	bits := make([]byte, c.Clbits())
	for i := range bits {
		bits[i] = '0'
	}
	for _, o := range c.ops {
		if o.kind != opMeasure {
			continue
		}
		if index&(1<<o.target) != 0 {
			bits[len(bits)-1-o.clbit] = '1'
		}
	}
	return string(bits)
}

/*
NoisySimulator decorates a Simulator with a symmetric readout error: after
sampling, every classical bit of every shot is flipped independently with
the configured probability. It models the readout-error robustness trade-off
between measuring one ancilla qubit and measuring the full data register.
*/
type NoisySimulator struct {
	mu           sync.Mutex
	rng          *rand.Rand
	inner        *Simulator
	readoutError float64
}

// NewNoisySimulator wraps a fresh simulator, flipping each measured bit with
// probability readoutError in [0,1].
func NewNoisySimulator(seed int64, readoutError float64) (*NoisySimulator, error) {
	if readoutError < 0 || readoutError > 1 {
		return nil, fmt.Errorf("readout error must be in [0,1], got %v", readoutError)
	}
	return &NoisySimulator{
		rng:          rand.New(rand.NewSource(seed)),
		inner:        NewSimulator(seed + 1),
		readoutError: readoutError,
	}, nil
}

func (n *NoisySimulator) Name() string {
	return fmt.Sprintf("noisy_%s", n.inner.Name())
}

func (n *NoisySimulator) Run(ctx context.Context, c *Circuit, shots int) (*Result, error) {
	res, err := n.inner.Run(ctx, c, shots)
	if err != nil {
		return nil, err
	}
	if n.readoutError == 0 {
		res.Backend = n.Name()
		return res, nil
	}

	flipped := make(Counts)
	n.mu.Lock()
	for outcome, count := range res.Counts {
		for shot := 0; shot < count; shot++ {
			bits := []byte(outcome)
			for i := range bits {
				if n.rng.Float64() < n.readoutError {
					bits[i] ^= '0' ^ '1'
				}
			}
			flipped[string(bits)]++
		}
	}
	n.mu.Unlock()

	res.Backend = n.Name()
	res.Counts = flipped
	return res, nil
}
