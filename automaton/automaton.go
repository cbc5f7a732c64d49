package automaton

import (
	"fmt"
	"sort"
	"strings"
)

// Transition keys the partial transition map: the source state and the input
// symbol consumed.
type Transition struct {
	State  string
	Symbol string
}

// DFA Represents a deterministic finite automaton with a possibly partial
// transition function. Minimization never mutates a DFA; each stage returns a
// new value and the input stays usable.
type DFA struct {
	States      map[string]struct{}
	Alphabet    map[string]struct{}
	Transitions map[Transition]string
	Start       string
	Finals      map[string]struct{}
}

// NewDFA builds an automaton from the given components and validates it.
func NewDFA(states, alphabet []string, transitions map[Transition]string, start string, finals []string) (*DFA, error) {
	d := &DFA{
		States:      make(map[string]struct{}, len(states)),
		Alphabet:    make(map[string]struct{}, len(alphabet)),
		Transitions: make(map[Transition]string, len(transitions)),
		Start:       start,
		Finals:      make(map[string]struct{}, len(finals)),
	}
	for _, s := range states {
		d.States[s] = struct{}{}
	}
	for _, a := range alphabet {
		d.Alphabet[a] = struct{}{}
	}
	for k, v := range transitions {
		d.Transitions[k] = v
	}
	for _, f := range finals {
		d.Finals[f] = struct{}{}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks the automaton's structural invariants: the start state and
// every transition endpoint belong to the state set, every transition symbol
// belongs to the alphabet, and the final states are a subset of the states.
func (d *DFA) Validate() error {
	if _, ok := d.States[d.Start]; !ok {
		return fmt.Errorf("start state (%s) is not in the state set", d.Start)
	}
	for f := range d.Finals {
		if _, ok := d.States[f]; !ok {
			return fmt.Errorf("final state (%s) is not in the state set", f)
		}
	}
	for k, dest := range d.Transitions {
		if _, ok := d.States[k.State]; !ok {
			return fmt.Errorf("transition source (%s) is not in the state set", k.State)
		}
		if _, ok := d.States[dest]; !ok {
			return fmt.Errorf("transition destination (%s) is not in the state set", dest)
		}
		if _, ok := d.Alphabet[k.Symbol]; !ok {
			return fmt.Errorf("transition symbol (%s) is not in the alphabet", k.Symbol)
		}
	}
	return nil
}

// IsFinal Returns true if state is an accept state.
func (d *DFA) IsFinal(state string) bool {
	_, ok := d.Finals[state]
	return ok
}

// Clone Returns a deep copy sharing no mutable state with the receiver.
func (d *DFA) Clone() *DFA {
	out := &DFA{
		States:      make(map[string]struct{}, len(d.States)),
		Alphabet:    make(map[string]struct{}, len(d.Alphabet)),
		Transitions: make(map[Transition]string, len(d.Transitions)),
		Start:       d.Start,
		Finals:      make(map[string]struct{}, len(d.Finals)),
	}
	for s := range d.States {
		out.States[s] = struct{}{}
	}
	for a := range d.Alphabet {
		out.Alphabet[a] = struct{}{}
	}
	for k, v := range d.Transitions {
		out.Transitions[k] = v
	}
	for f := range d.Finals {
		out.Finals[f] = struct{}{}
	}
	return out
}

// SortedStates Returns the states in lexicographic order. The minimizer
// iterates in this order so results are reproducible.
func (d *DFA) SortedStates() []string {
	states := make([]string, 0, len(d.States))
	for s := range d.States {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

// SortedAlphabet Returns the alphabet in lexicographic order.
func (d *DFA) SortedAlphabet() []string {
	symbols := make([]string, 0, len(d.Alphabet))
	for a := range d.Alphabet {
		symbols = append(symbols, a)
	}
	sort.Strings(symbols)
	return symbols
}

// String dumps all fields in sorted order. Readability only; no semantic
// contract.
func (d *DFA) String() string {
	var sb strings.Builder

	sb.WriteString("States: ")
	sb.WriteString(strings.Join(d.SortedStates(), " "))
	sb.WriteString("\nAlphabet: ")
	sb.WriteString(strings.Join(d.SortedAlphabet(), " "))
	sb.WriteString("\nTransitions:\n")

	keys := make([]Transition, 0, len(d.Transitions))
	for k := range d.Transitions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].State != keys[j].State {
			return keys[i].State < keys[j].State
		}
		return keys[i].Symbol < keys[j].Symbol
	})
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %s --%s--> %s\n", k.State, k.Symbol, d.Transitions[k])
	}

	sb.WriteString("Start State: ")
	sb.WriteString(d.Start)
	sb.WriteString("\nFinal States: ")

	finals := make([]string, 0, len(d.Finals))
	for f := range d.Finals {
		finals = append(finals, f)
	}
	sort.Strings(finals)
	sb.WriteString(strings.Join(finals, " "))

	return sb.String()
}
