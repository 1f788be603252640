package circuit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing. The gate-name groups spell out the
// mnemonics this package emits, so anything else falls through to the
// unrecognized-statement error.
var (
	qregRegex       = regexp.MustCompile(`^qreg\s+(\w+)\[(\d+)\];?$`)
	singleRegex     = regexp.MustCompile(`^(h|x)\s+q\[(\d+)\];?$`)
	twoQubitRegex   = regexp.MustCompile(`^(cx|cz|ch)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	twoParamRegex   = regexp.MustCompile(`^(cu1)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	threeQubitRegex = regexp.MustCompile(`^(ccx)\s+q\[(\d+)\],\s*q\[(\d+)\],\s*q\[(\d+)\];?$`)
)

// ToQASM generates OPENQASM 2.0 text for the circuit.
func (c *Circuit) ToQASM() string {
	// The register must span every referenced wire even if NumQubits lags.
	maxQubit := Qubit(-1)
	for _, op := range c.Ops {
		for _, q := range op.Qubits() {
			if q > maxQubit {
				maxQubit = q
			}
		}
	}
	numQubits := max(int(maxQubit)+1, c.NumQubits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n\n", numQubits)

	for _, op := range c.Ops {
		writeOpQASM(&sb, op)
	}
	return sb.String()
}

// writeOpQASM writes a single op as one QASM statement.
func writeOpQASM(sb *strings.Builder, op Op) {
	if op.HasParam {
		fmt.Fprintf(sb, "%s(%s) ", op.Name, FormatParam(op.Param))
	} else {
		fmt.Fprintf(sb, "%s ", op.Name)
	}
	for i, q := range op.Qubits() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "q[%d]", q)
	}
	sb.WriteString(";\n")
}

// ParseQASM rebuilds the circuit from QASM text. Only the statement forms this
// package emits are recognized; anything else is an error.
func (c *Circuit) ParseQASM(qasm string) error {
	c.Ops = nil

	for _, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") {
			continue
		}

		if m := qregRegex.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[2])
			c.NumQubits = n
			continue
		}

		if m := threeQubitRegex.FindStringSubmatch(line); m != nil {
			c1, _ := strconv.Atoi(m[2])
			c2, _ := strconv.Atoi(m[3])
			t, _ := strconv.Atoi(m[4])
			c.Append(Op{
				Name:     m[1],
				Controls: []Qubit{Qubit(c1), Qubit(c2)},
				Target:   Qubit(t),
			})
			continue
		}

		if m := twoParamRegex.FindStringSubmatch(line); m != nil {
			theta, ok := ParseParamExpr(m[2])
			if !ok {
				return fmt.Errorf("bad parameter %q in line %q", m[2], line)
			}
			ctrl, _ := strconv.Atoi(m[3])
			t, _ := strconv.Atoi(m[4])
			c.Append(Op{
				Name:     m[1],
				Controls: []Qubit{Qubit(ctrl)},
				Target:   Qubit(t),
				Param:    theta,
				HasParam: true,
			})
			continue
		}

		if m := twoQubitRegex.FindStringSubmatch(line); m != nil {
			ctrl, _ := strconv.Atoi(m[2])
			t, _ := strconv.Atoi(m[3])
			c.Append(Op{
				Name:     m[1],
				Controls: []Qubit{Qubit(ctrl)},
				Target:   Qubit(t),
			})
			continue
		}

		if m := singleRegex.FindStringSubmatch(line); m != nil {
			t, _ := strconv.Atoi(m[2])
			c.Append(Op{Name: m[1], Target: Qubit(t)})
			continue
		}

		return fmt.Errorf("unrecognized QASM statement: %q", line)
	}
	return nil
}
