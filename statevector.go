package qkern

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

/*
StateVector holds the 2^n complex amplitudes of an n-qubit register.
Qubit q corresponds to bit 1<<q of the basis-state index.
*/
type StateVector struct {
	amps   []complex128
	qubits int
}

// NewStateVector prepares |0...0⟩ over the given number of qubits.
func NewStateVector(qubits int) *StateVector {
	return newBasisState(qubits, 0)
}

func newBasisState(qubits, index int) *StateVector {
	amps := make([]complex128, 1<<qubits)
	amps[index] = 1
	return &StateVector{amps: amps, qubits: qubits}
}

func (sv *StateVector) Qubits() int { return sv.qubits }

// Amplitudes returns a copy of the amplitude array.
func (sv *StateVector) Amplitudes() []complex128 {
	out := make([]complex128, len(sv.amps))
	copy(out, sv.amps)
	return out
}

// ApplyH applies the Hadamard
//
//	H = 1/√2 * [1  1]
//	           [1 -1]
//
// to qubit q.
func (sv *StateVector) ApplyH(q int) {
	factor := complex(1/math.Sqrt2, 0)
	bit := 1 << q
	for i := range sv.amps {
		if i&bit == 0 {
			j := i | bit
			a, b := sv.amps[i], sv.amps[j]
			sv.amps[i] = factor * (a + b)
			sv.amps[j] = factor * (a - b)
		}
	}
}

// ApplyX flips qubit q.
func (sv *StateVector) ApplyX(q int) {
	bit := 1 << q
	for i := range sv.amps {
		if i&bit == 0 {
			j := i | bit
			sv.amps[i], sv.amps[j] = sv.amps[j], sv.amps[i]
		}
	}
}

// ApplyS multiplies the |1⟩ amplitudes of qubit q by i.
func (sv *StateVector) ApplyS(q int) {
	sv.applyDiagonal(q, 1i)
}

// ApplySdg multiplies the |1⟩ amplitudes of qubit q by -i.
func (sv *StateVector) ApplySdg(q int) {
	sv.applyDiagonal(q, -1i)
}

// ApplyPhase multiplies the |1⟩ amplitudes of qubit q by e^{iθ}.
func (sv *StateVector) ApplyPhase(q int, theta float64) {
	sv.applyDiagonal(q, cmplx.Exp(complex(0, theta)))
}

func (sv *StateVector) applyDiagonal(q int, factor complex128) {
	bit := 1 << q
	for i := range sv.amps {
		if i&bit != 0 {
			sv.amps[i] *= factor
		}
	}
}

// ApplyCPhase multiplies by e^{iθ} the amplitudes where both qubits are |1⟩.
func (sv *StateVector) ApplyCPhase(control, target int, theta float64) {
	factor := cmplx.Exp(complex(0, theta))
	mask := 1<<control | 1<<target
	for i := range sv.amps {
		if i&mask == mask {
			sv.amps[i] *= factor
		}
	}
}

// ApplyUnitary multiplies the full amplitude vector by a matrix spanning the
// whole register.
func (sv *StateVector) ApplyUnitary(u *mat.CDense) error {
	rows, cols := u.Dims()
	if rows != len(sv.amps) || cols != len(sv.amps) {
		return fmt.Errorf("unitary is %dx%d, state has dimension %d", rows, cols, len(sv.amps))
	}
	next := make([]complex128, len(sv.amps))
	for i := range next {
		var sum complex128
		for j, a := range sv.amps {
			if a == 0 {
				continue
			}
			sum += u.At(i, j) * a
		}
		next[i] = sum
	}
	sv.amps = next
	return nil
}

// Probabilities returns the Born-rule probability of each basis state.
func (sv *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(sv.amps))
	for i, a := range sv.amps {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}
