package automaton

// Step Performs a single transition lookup. Returns the destination state,
// or false if no transition is defined for (state, symbol).
func (d *DFA) Step(state, symbol string) (string, bool) {
	dest, ok := d.Transitions[Transition{State: state, Symbol: symbol}]
	return dest, ok
}

// Run Returns true if the automaton accepts the given symbol sequence,
// starting from the start state. An undefined transition rejects immediately.
func Run(d *DFA, input []string) bool {
	state := d.Start
	for _, symbol := range input {
		next, ok := d.Step(state, symbol)
		if !ok {
			return false
		}
		state = next
	}
	return d.IsFinal(state)
}

// RunString is Run over a string whose runes are single-rune symbols.
func RunString(d *DFA, s string) bool {
	input := make([]string, 0, len(s))
	for _, r := range s {
		input = append(input, string(r))
	}
	return Run(d, input)
}
