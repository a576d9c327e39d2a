package qkern

import "fmt"

/*
FeatureMap builds the canonical encoding circuit for n qubits bound to the
first n values of params: a layer of Hadamards, a phase rotation on each
qubit keyed by its feature value, and an entangling controlled phase on each
qubit pair keyed by the product of their feature values.
*/
func FeatureMap(qubits int, params []float64) (*Circuit, error) {
	if qubits < 1 {
		return nil, fmt.Errorf("feature map needs at least one qubit, got %d", qubits)
	}
	if len(params) < qubits {
		return nil, fmt.Errorf("feature map over %d qubits needs %d parameters, got %d",
			qubits, qubits, len(params))
	}
	for i, p := range params[:qubits] {
		if p < 0 || p >= 1 {
			return nil, fmt.Errorf("parameter %d is %v, want [0,1)", i, p)
		}
	}

	c := NewCircuit(qubits, 0)
	for q := 0; q < qubits; q++ {
		c.H(q)
	}
	for q := 0; q < qubits; q++ {
		c.Phase(q, encodingAngle(params[q]))
	}
	for i := 0; i < qubits; i++ {
		for j := i + 1; j < qubits; j++ {
			c.CPhase(i, j, encodingAngle(params[i]*params[j]))
		}
	}
	return c, nil
}
