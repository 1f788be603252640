package main

import (
	"qsynth/circuit"
	"qsynth/mcmt"
)

// primitiveGate is one choice of single-control primitive for the synthesizer.
type primitiveGate struct {
	name     string // QASM mnemonic of the controlled form
	display  string
	symbol   string // target-wire symbol in the circuit grid ("" for a boxed name)
	boxed    string // boxed gate name when symbol is empty
	hasParam bool
}

// primitives lists the selectable single-control gates.
var primitives = []primitiveGate{
	{name: "cx", display: "CNOT", symbol: "⊕"},
	{name: "cz", display: "Controlled-Z", symbol: "●"},
	{name: "ch", display: "Controlled-H", boxed: "H"},
	{name: "cu1", display: "Controlled-Phase", boxed: "P", hasParam: true},
}

// emitter returns the SingleControlGate for this primitive. theta is only
// consulted for the parameterized phase gate.
func (p primitiveGate) emitter(theta float64) mcmt.SingleControlGate {
	switch p.name {
	case "cx":
		return (*circuit.Circuit).CX
	case "cz":
		return (*circuit.Circuit).CZ
	case "ch":
		return (*circuit.Circuit).CH
	case "cu1":
		return func(qc *circuit.Circuit, control, target circuit.Qubit) {
			qc.CP(theta, control, target)
		}
	}
	return nil
}
