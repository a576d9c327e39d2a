package qkern

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

type opKind int

const (
	opH opKind = iota
	opX
	opS
	opSdg
	opPhase
	opCPhase
	opGate
	opMeasure
)

type op struct {
	kind    opKind
	target  int
	control int
	theta   float64
	gate    *Gate
	clbit   int
}

/*
Circuit is an ordered list of gate applications over a fixed register of
qubits and classical bits. Building a circuit is deterministic; the only
randomness enters when a Backend samples measurement outcomes from it.
*/
type Circuit struct {
	qubits int
	clbits int
	ops    []op
}

// NewCircuit allocates an empty circuit over the given registers.
func NewCircuit(qubits, clbits int) *Circuit {
	if qubits < 1 {
		panic(fmt.Sprintf("qkern: circuit needs at least one qubit, got %d", qubits))
	}
	if clbits < 0 {
		panic(fmt.Sprintf("qkern: negative classical register size %d", clbits))
	}
	return &Circuit{qubits: qubits, clbits: clbits}
}

func (c *Circuit) Qubits() int { return c.qubits }
func (c *Circuit) Clbits() int { return c.clbits }

func (c *Circuit) checkQubit(q int) {
	if q < 0 || q >= c.qubits {
		panic(fmt.Sprintf("qkern: qubit %d out of range [0,%d)", q, c.qubits))
	}
}

// H applies a Hadamard to qubit q.
func (c *Circuit) H(q int) *Circuit {
	c.checkQubit(q)
	c.ops = append(c.ops, op{kind: opH, target: q})
	return c
}

// X applies a bit flip to qubit q.
func (c *Circuit) X(q int) *Circuit {
	c.checkQubit(q)
	c.ops = append(c.ops, op{kind: opX, target: q})
	return c
}

// S applies the phase gate diag(1, i) to qubit q.
func (c *Circuit) S(q int) *Circuit {
	c.checkQubit(q)
	c.ops = append(c.ops, op{kind: opS, target: q})
	return c
}

// Sdg applies the inverse phase gate diag(1, -i) to qubit q.
func (c *Circuit) Sdg(q int) *Circuit {
	c.checkQubit(q)
	c.ops = append(c.ops, op{kind: opSdg, target: q})
	return c
}

// Phase rotates the |1⟩ amplitude of qubit q by e^{iθ}.
func (c *Circuit) Phase(q int, theta float64) *Circuit {
	c.checkQubit(q)
	c.ops = append(c.ops, op{kind: opPhase, target: q, theta: theta})
	return c
}

// CPhase rotates by e^{iθ} the amplitudes where both qubits are |1⟩.
func (c *Circuit) CPhase(control, target int, theta float64) *Circuit {
	c.checkQubit(control)
	c.checkQubit(target)
	if control == target {
		panic(fmt.Sprintf("qkern: controlled phase needs distinct qubits, got %d twice", control))
	}
	c.ops = append(c.ops, op{kind: opCPhase, control: control, target: target, theta: theta})
	return c
}

// Append applies a gate spanning the whole register.
func (c *Circuit) Append(g *Gate) *Circuit {
	if g.Qubits() != c.qubits {
		panic(fmt.Sprintf("qkern: gate %s spans %d qubits, circuit has %d", g.Name(), g.Qubits(), c.qubits))
	}
	c.ops = append(c.ops, op{kind: opGate, gate: g})
	return c
}

// Measure reads qubit q into classical bit cl.
func (c *Circuit) Measure(q, cl int) *Circuit {
	c.checkQubit(q)
	if cl < 0 || cl >= c.clbits {
		panic(fmt.Sprintf("qkern: classical bit %d out of range [0,%d)", cl, c.clbits))
	}
	c.ops = append(c.ops, op{kind: opMeasure, target: q, clbit: cl})
	return c
}

func (c *Circuit) measured() bool {
	for _, o := range c.ops {
		if o.kind == opMeasure {
			return true
		}
	}
	return false
}

/*
Inverse returns the algebraic inverse of the circuit: gates in reverse order,
each replaced by its own inverse. Circuits containing measurements have no
inverse and are rejected.
*/
func (c *Circuit) Inverse() (*Circuit, error) {
	inv := NewCircuit(c.qubits, c.clbits)
	inv.ops = make([]op, 0, len(c.ops))
	for i := len(c.ops) - 1; i >= 0; i-- {
		o := c.ops[i]
		switch o.kind {
		case opH, opX:
			// self-inverse
		case opS:
			o.kind = opSdg
		case opSdg:
			o.kind = opS
		case opPhase, opCPhase:
			o.theta = -o.theta
		case opGate:
			o.gate = o.gate.Dagger()
		case opMeasure:
			return nil, fmt.Errorf("circuit with measurements has no inverse")
		}
		inv.ops = append(inv.ops, o)
	}
	return inv, nil
}

/*
Unitary computes the exact matrix representation of the circuit by evolving
every computational basis state through it. Measurements are not unitary and
are rejected.
*/
func (c *Circuit) Unitary() (*mat.CDense, error) {
	if c.measured() {
		return nil, fmt.Errorf("circuit with measurements has no unitary representation")
	}
	dim := 1 << c.qubits
	u := mat.NewCDense(dim, dim, nil)
	for col := 0; col < dim; col++ {
		sv := newBasisState(c.qubits, col)
		if err := c.evolve(sv); err != nil {
			return nil, err
		}
		for row := 0; row < dim; row++ {
			u.Set(row, col, sv.amps[row])
		}
	}
	return u, nil
}

// evolve applies every unitary op in order, skipping measurements. The
// backend handles measurements from the final amplitudes.
func (c *Circuit) evolve(sv *StateVector) error {
	for _, o := range c.ops {
		switch o.kind {
		case opH:
			sv.ApplyH(o.target)
		case opX:
			sv.ApplyX(o.target)
		case opS:
			sv.ApplyS(o.target)
		case opSdg:
			sv.ApplySdg(o.target)
		case opPhase:
			sv.ApplyPhase(o.target, o.theta)
		case opCPhase:
			sv.ApplyCPhase(o.control, o.target, o.theta)
		case opGate:
			if err := sv.ApplyUnitary(o.gate.matrix); err != nil {
				return fmt.Errorf("applying gate %s: %w", o.gate.Name(), err)
			}
		case opMeasure:
		}
	}
	return nil
}
