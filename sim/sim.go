// Package sim is a small statevector simulator for the op set the synthesizer
// emits. Every op reduces to a base gate (X, Z, H or a phase rotation) plus a
// control mask, so singly- and doubly-controlled forms share one code path.
package sim

import (
	"fmt"
	"math"
	"math/cmplx"

	"qsynth/circuit"
)

type Complex = complex128

type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// New returns the all-zeros state |0...0> over numQubits qubits.
func New(numQubits int) *StateVector {
	amps := make([]Complex, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// Run simulates the circuit from |0...0> and returns the final state.
func Run(c *circuit.Circuit) (*StateVector, error) {
	s := New(c.NumQubits)
	for _, op := range c.Ops {
		if err := s.Apply(op); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Apply applies one op to the state.
func (s *StateVector) Apply(op circuit.Op) error {
	mask := 0
	for _, c := range op.Controls {
		mask |= 1 << c
	}
	target := 1 << op.Target

	switch op.Name {
	case "x", "cx", "ccx":
		s.applyX(mask, target)
	case "z", "cz":
		s.applyPhase(mask, target, -1)
	case "h", "ch":
		s.applyH(mask, target)
	case "u1", "p", "cu1", "cp":
		s.applyPhase(mask, target, cmplx.Exp(complex(0, op.Param)))
	default:
		return fmt.Errorf("sim: unsupported op %q", op.Name)
	}
	return nil
}

// applyX swaps the target pair of every basis state whose controls are all set.
func (s *StateVector) applyX(mask, target int) {
	for i := range s.Amplitudes {
		if i&mask == mask && i&target == 0 {
			j := i | target
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// applyPhase multiplies by factor where the controls and the target are all set.
func (s *StateVector) applyPhase(mask, target int, factor Complex) {
	for i := range s.Amplitudes {
		if i&mask == mask && i&target != 0 {
			s.Amplitudes[i] *= factor
		}
	}
}

// applyH mixes each target pair of every basis state whose controls are all set.
func (s *StateVector) applyH(mask, target int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	for i := range s.Amplitudes {
		if i&mask == mask && i&target == 0 {
			j := i | target
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = hFactor * (a + b)
			s.Amplitudes[j] = hFactor * (a - b)
		}
	}
}

// Probability returns P(qubit reads 1).
func (s *StateVector) Probability(q circuit.Qubit) float64 {
	bit := 1 << q
	p := 0.0
	for i, amp := range s.Amplitudes {
		if i&bit != 0 {
			p += real(amp * cmplx.Conj(amp))
		}
	}
	return p
}

// Probabilities returns P(1) for every qubit in wire order.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, s.NumQubits)
	for q := range probs {
		probs[q] = s.Probability(circuit.Qubit(q))
	}
	return probs
}
