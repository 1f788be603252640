package circuit

// Schedule assigns each op a time step. An op lands in the earliest step after
// every prior op that shares a qubit with it, so ops on disjoint qubits (for
// example the per-target applications of a synthesized fragment, which all
// hang off the same control wire) still serialize through that shared wire,
// while truly independent ops render side by side. The returned slice is
// indexed by op position.
func (c *Circuit) Schedule() []int {
	steps := make([]int, len(c.Ops))
	lastOnQubit := make(map[Qubit]int, c.NumQubits)

	for i, op := range c.Ops {
		step := 0
		for _, q := range op.Qubits() {
			if prev, ok := lastOnQubit[q]; ok && prev+1 > step {
				step = prev + 1
			}
		}
		steps[i] = step
		for _, q := range op.Qubits() {
			lastOnQubit[q] = step
		}
	}
	return steps
}

// Depth returns the number of scheduled time steps.
func (c *Circuit) Depth() int {
	depth := 0
	for _, s := range c.Schedule() {
		if s+1 > depth {
			depth = s + 1
		}
	}
	return depth
}
