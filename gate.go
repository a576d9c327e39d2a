package qkern

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

/*
Gate is a named unitary matrix over a fixed number of qubits, immutable once
constructed. It is the building block circuits are composed from when a
subcircuit has already been lowered to its matrix representation.
*/
type Gate struct {
	name   string
	qubits int
	matrix *mat.CDense
}

// NewGate wraps a matrix as a gate. The matrix must be square with dimension
// 2^qubits; unitarity is the caller's responsibility.
func NewGate(name string, qubits int, u *mat.CDense) (*Gate, error) {
	rows, cols := u.Dims()
	dim := 1 << qubits
	if rows != dim || cols != dim {
		return nil, fmt.Errorf("gate %s over %d qubits needs a %dx%d matrix, got %dx%d",
			name, qubits, dim, dim, rows, cols)
	}
	return &Gate{name: name, qubits: qubits, matrix: u}, nil
}

func (g *Gate) Name() string { return g.name }
func (g *Gate) Qubits() int  { return g.qubits }

// Matrix returns a copy of the gate's unitary.
func (g *Gate) Matrix() *mat.CDense {
	dim := 1 << g.qubits
	out := mat.NewCDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			out.Set(i, j, g.matrix.At(i, j))
		}
	}
	return out
}

// Dagger returns the conjugate transpose of the gate.
func (g *Gate) Dagger() *Gate {
	dim := 1 << g.qubits
	out := mat.NewCDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			out.Set(i, j, cmplx.Conj(g.matrix.At(j, i)))
		}
	}
	return &Gate{name: g.name + "_dg", qubits: g.qubits, matrix: out}
}

/*
Controlled promotes the gate to a controlled gate over one extra qubit. The
control occupies qubit 0 of the promoted gate and the original targets shift
up by one: the promoted gate acts as the identity when the control is |0⟩ and
as the base gate when the control is |1⟩.
*/
func (g *Gate) Controlled() *Gate {
	dim := 1 << g.qubits
	out := mat.NewCDense(dim*2, dim*2, nil)
	for i := 0; i < dim; i++ {
		out.Set(i<<1, i<<1, 1)
		for j := 0; j < dim; j++ {
			out.Set(i<<1|1, j<<1|1, g.matrix.At(i, j))
		}
	}
	return &Gate{name: "c_" + g.name, qubits: g.qubits + 1, matrix: out}
}

// IsUnitary reports whether U†U equals the identity within tol.
func (g *Gate) IsUnitary(tol float64) bool {
	dim := 1 << g.qubits
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			var sum complex128
			for k := 0; k < dim; k++ {
				sum += cmplx.Conj(g.matrix.At(k, i)) * g.matrix.At(k, j)
			}
			want := complex128(0)
			if i == j {
				want = 1
			}
			if cmplx.Abs(sum-want) > tol {
				return false
			}
		}
	}
	return true
}

type encodingOptions struct {
	inverse    bool
	controlled bool
}

// EncodingOption configures NewEncodingGate.
type EncodingOption func(*encodingOptions)

// WithInverse requests the algebraic inverse of the encoding.
func WithInverse() EncodingOption {
	return func(o *encodingOptions) { o.inverse = true }
}

// WithControl promotes the encoding to a controlled gate, with the control
// on qubit 0 and the data register shifted to qubits 1..n.
func WithControl() EncodingOption {
	return func(o *encodingOptions) { o.controlled = true }
}

/*
NewEncodingGate lowers the feature-map circuit for the first `qubits` values
of params to its exact unitary and wraps it as a gate. The inverse form is
the conjugate transpose of the forward form; the controlled form spans one
extra qubit.
*/
func NewEncodingGate(qubits int, params []float64, opts ...EncodingOption) (*Gate, error) {
	var o encodingOptions
	for _, opt := range opts {
		opt(&o)
	}

	circuit, err := FeatureMap(qubits, params)
	if err != nil {
		return nil, err
	}
	if o.inverse {
		if circuit, err = circuit.Inverse(); err != nil {
			return nil, err
		}
	}

	u, err := circuit.Unitary()
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("enc%d", qubits)
	if o.inverse {
		name += "_dg"
	}
	gate, err := NewGate(name, qubits, u)
	if err != nil {
		return nil, err
	}
	if o.controlled {
		gate = gate.Controlled()
	}
	return gate, nil
}

// encodingAngle maps a feature value in [0,1) onto a full phase turn.
func encodingAngle(x float64) float64 {
	return 2 * math.Pi * x
}
