package qkern

import (
	"context"
	"fmt"
	"sync"

	"github.com/theapemachine/errnie"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// MeasurementBasis selects which basis the ancilla qubit is read out in.
type MeasurementBasis int

const (
	BasisX MeasurementBasis = iota
	BasisY
)

/*
Estimator computes quantum kernel values K(x, y) = |⟨Φ(x)|Φ(y)⟩|² for
feature vectors encoded by the canonical feature map. Two sampling paths are
available: the all-zero overlap test over the full data register, and the
single-ancilla test that reads out one qubit per shot at the cost of two
circuit executions per kernel entry.
*/
type Estimator struct {
	backend Backend
	qubits  int
	config  *Config
}

// EstimatorOption configures an Estimator.
type EstimatorOption func(*Estimator)

// WithShots overrides the default shot count per circuit execution.
func WithShots(shots int) EstimatorOption {
	return func(e *Estimator) { e.config.Shots = shots }
}

// WithWorkers bounds the number of concurrent backend runs during kernel
// matrix assembly.
func WithWorkers(workers int) EstimatorOption {
	return func(e *Estimator) { e.config.Workers = workers }
}

// NewEstimator creates an estimator over the given data-register width.
func NewEstimator(backend Backend, qubits int, opts ...EstimatorOption) (*Estimator, error) {
	if backend == nil {
		return nil, fmt.Errorf("estimator needs a backend")
	}
	if qubits < 1 {
		return nil, fmt.Errorf("estimator needs at least one data qubit, got %d", qubits)
	}
	e := &Estimator{
		backend: backend,
		qubits:  qubits,
		config:  NewConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.config.Shots < 1 {
		return nil, fmt.Errorf("shot count must be positive, got %d", e.config.Shots)
	}
	if e.config.Workers < 1 {
		e.config.Workers = 1
	}
	errnie.Info(
		"NewEstimator - backend %v, qubits %v, shots %v",
		backend.Name(),
		qubits,
		e.config.Shots,
	)
	return e, nil
}

/*
Estimate splits a 2N-value parameter vector into two feature vectors and
returns the single-ancilla kernel estimate between them.
*/
func (e *Estimator) Estimate(ctx context.Context, params []float64) (float64, error) {
	if len(params) != 2*e.qubits {
		return 0, fmt.Errorf("parameter vector must hold %d values, got %d", 2*e.qubits, len(params))
	}
	return e.EstimatePair(ctx, params[:e.qubits], params[e.qubits:])
}

/*
EstimatePair estimates K(x, y) with the single-ancilla method: the X-basis
and Y-basis test circuits are executed for the configured number of shots,
their tallies combine into a complex overlap estimate

	amplitude = ((X0 + i·Y0) - (X1 + i·Y1)) / shots

and the kernel value is the squared magnitude of that amplitude.
*/
func (e *Estimator) EstimatePair(ctx context.Context, x, y []float64) (float64, error) {
	cx, err := e.ancillaCircuit(x, y, BasisX)
	if err != nil {
		return 0, err
	}
	cy, err := e.ancillaCircuit(x, y, BasisY)
	if err != nil {
		return 0, err
	}

	resX, err := e.backend.Run(ctx, cx, e.config.Shots)
	if err != nil {
		return 0, fmt.Errorf("running X-basis circuit: %w", err)
	}
	resY, err := e.backend.Run(ctx, cy, e.config.Shots)
	if err != nil {
		return 0, fmt.Errorf("running Y-basis circuit: %w", err)
	}

	amplitude := ancillaAmplitude(resX.Counts, resY.Counts, e.config.Shots)
	return kernelFromAmplitude(amplitude), nil
}

/*
EstimateOverlap estimates K(x, y) with the reference all-zero method: encode
x, undo the encoding of y, measure every data qubit, and count how often the
register returns to |0...0⟩.
*/
func (e *Estimator) EstimateOverlap(ctx context.Context, x, y []float64) (float64, error) {
	c, err := e.overlapCircuit(x, y)
	if err != nil {
		return 0, err
	}
	res, err := e.backend.Run(ctx, c, e.config.Shots)
	if err != nil {
		return 0, fmt.Errorf("running overlap circuit: %w", err)
	}
	return float64(res.Counts.AllZero(e.qubits)) / float64(e.config.Shots), nil
}

/*
Exact computes K(x, y) from the encoding unitaries directly, with no
sampling. It is the infinite-shot limit both estimation methods converge to.
*/
func (e *Estimator) Exact(x, y []float64) (float64, error) {
	gx, err := NewEncodingGate(e.qubits, x)
	if err != nil {
		return 0, err
	}
	gy, err := NewEncodingGate(e.qubits, y)
	if err != nil {
		return 0, err
	}

	// ⟨Φ(y)|Φ(x)⟩ from the first columns, which are Enc|0...0⟩.
	ux, uy := gx.matrix, gy.matrix
	var overlap complex128
	for k := 0; k < 1<<e.qubits; k++ {
		a := uy.At(k, 0)
		overlap += complex(real(a), -imag(a)) * ux.At(k, 0)
	}
	return kernelFromAmplitude(overlap), nil
}

/*
KernelMatrix assembles the Gram matrix over a dataset, estimating each
off-diagonal entry with the single-ancilla method. Entries are computed
concurrently up to the configured worker limit; the diagonal is exactly one
by construction and is not sampled.
*/
func (e *Estimator) KernelMatrix(ctx context.Context, data [][]float64) (*mat.SymDense, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("kernel matrix needs at least one data point")
	}

	m := mat.NewSymDense(len(data), nil)
	for i := range data {
		m.SetSym(i, i, 1)
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)
	for i := 0; i < len(data); i++ {
		for j := i + 1; j < len(data); j++ {
			i, j := i, j
			g.Go(func() error {
				k, err := e.EstimatePair(ctx, data[i], data[j])
				if err != nil {
					return fmt.Errorf("kernel entry (%d,%d): %w", i, j, err)
				}
				mu.Lock()
				m.SetSym(i, j, k)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

/*
ancillaCircuit builds the single-ancilla test circuit over N+1 qubits.
Qubit 0 is the ancilla; the encodings of the two points are controlled on
opposite ancilla branches via the intervening bit flips, so the final state
carries Φ(y) on the |0⟩ branch and Φ(x) on the |1⟩ branch. The X-basis
readout then estimates Re⟨Φ(y)|Φ(x)⟩ and the Y-basis readout, with the
inverse-phase correction before the basis change, Im⟨Φ(y)|Φ(x)⟩.
*/
func (e *Estimator) ancillaCircuit(x, y []float64, basis MeasurementBasis) (*Circuit, error) {
	gx, err := NewEncodingGate(e.qubits, x, WithControl())
	if err != nil {
		return nil, err
	}
	gy, err := NewEncodingGate(e.qubits, y, WithControl())
	if err != nil {
		return nil, err
	}

	c := NewCircuit(e.qubits+1, 1)
	c.H(0)
	c.Append(gx)
	c.X(0)
	c.Append(gy)
	c.X(0)
	if basis == BasisY {
		c.Sdg(0)
	}
	c.H(0)
	c.Measure(0, 0)
	return c, nil
}

// overlapCircuit builds the N-qubit reference circuit: encode x, apply the
// inverse encoding of y, measure the full register.
func (e *Estimator) overlapCircuit(x, y []float64) (*Circuit, error) {
	gx, err := NewEncodingGate(e.qubits, x)
	if err != nil {
		return nil, err
	}
	gy, err := NewEncodingGate(e.qubits, y, WithInverse())
	if err != nil {
		return nil, err
	}

	c := NewCircuit(e.qubits, e.qubits)
	c.Append(gx)
	c.Append(gy)
	for q := 0; q < e.qubits; q++ {
		c.Measure(q, q)
	}
	return c, nil
}

// ancillaAmplitude combines X-basis and Y-basis tallies into the complex
// overlap estimate. Absent outcome bins count as zero.
func ancillaAmplitude(xCounts, yCounts Counts, shots int) complex128 {
	re := float64(xCounts.Get("0")-xCounts.Get("1")) / float64(shots)
	im := float64(yCounts.Get("0")-yCounts.Get("1")) / float64(shots)
	return complex(re, im)
}

// kernelFromAmplitude squares the overlap magnitude, clamped to [0,1] since
// finite-shot noise can push the raw value above one.
func kernelFromAmplitude(amplitude complex128) float64 {
	k := real(amplitude)*real(amplitude) + imag(amplitude)*imag(amplitude)
	if k > 1 {
		return 1
	}
	return k
}

// Example demonstrates estimating one kernel entry on the local simulator.
func Example() {
	est, err := NewEstimator(NewSimulator(42), 2, WithShots(4096))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	kernel, err := est.Estimate(context.Background(), []float64{0.32, 0.11, 0.83, 0.42})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Kernel estimate: %.4f\n", kernel)
}
