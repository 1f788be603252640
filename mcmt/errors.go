package mcmt

import "errors"

// All synthesis failures are precondition failures: they are detected before
// anything is appended, so a non-nil error means the circuit was not touched.
var (
	// ErrInvalidQubit means a supplied qubit is not a wire of the circuit.
	ErrInvalidQubit = errors.New("mcmt: invalid qubit")

	// ErrDuplicateQubit means the same qubit appears more than once across the
	// combined control/target/ancilla set.
	ErrDuplicateQubit = errors.New("mcmt: duplicate qubit")

	// ErrUnsupportedMode means a decomposition mode other than ModeBasic was
	// requested.
	ErrUnsupportedMode = errors.New("mcmt: unsupported mode")

	// ErrInsufficientAncilla means fewer ancillary qubits were supplied than
	// the chain needs for the given control count.
	ErrInsufficientAncilla = errors.New("mcmt: insufficient ancillary qubits")
)
