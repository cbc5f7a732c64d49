package automaton

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Minimize Returns the minimal automaton recognizing the same language as d,
// restricted to the states reachable from the start state: inaccessible
// states are pruned, then language-equivalent states are merged by partition
// refinement (Moore's algorithm). The result's states are synthesized
// representatives q0, q1, ... of the final equivalence classes.
func Minimize(d *DFA) (*DFA, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	pruned := d.RemoveInaccessible()
	if len(pruned.States) <= 1 {
		// Fastmatch for the trivial case: nothing left to merge.
		return pruned, nil
	}

	states := pruned.SortedStates()
	alphabet := pruned.SortedAlphabet()
	index := make(map[string]int, len(states))
	for i, s := range states {
		index[s] = i
	}

	n := uint(len(states))
	accepting := bitset.New(n)
	rejecting := bitset.New(n)
	for i, s := range states {
		if pruned.IsFinal(s) {
			accepting.Set(uint(i))
		} else {
			rejecting.Set(uint(i))
		}
	}

	partition := make([]*bitset.BitSet, 0, 2)
	if accepting.Any() {
		partition = append(partition, accepting)
	}
	if rejecting.Any() {
		partition = append(partition, rejecting)
	}

	// Refine until a full pass leaves the partition unchanged. Group indices
	// can shift between passes, so the fixpoint check compares the partitions
	// as sets of state sets, never by index or group count.
	for {
		next := refinePartition(pruned, partition, states, alphabet, index)
		if partitionsEqual(partition, next) {
			break
		}
		partition = next
	}

	return quotient(pruned, partition, states), nil
}

// Accessible Returns the set of states reachable from the start state by
// following defined transitions, breadth-first.
func (d *DFA) Accessible() map[string]struct{} {
	states := d.SortedStates()
	index := make(map[string]int, len(states))
	for i, s := range states {
		index[s] = i
	}

	seen := bitset.New(uint(len(states)))
	seen.Set(uint(index[d.Start]))
	queue := []string{d.Start}
	alphabet := d.SortedAlphabet()

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		for _, symbol := range alphabet {
			next, ok := d.Step(state, symbol)
			if !ok {
				continue
			}
			if seen.Test(uint(index[next])) {
				continue
			}
			seen.Set(uint(index[next]))
			queue = append(queue, next)
		}
	}

	reachable := make(map[string]struct{}, seen.Count())
	for i, ok := seen.NextSet(0); ok; i, ok = seen.NextSet(i + 1) {
		reachable[states[i]] = struct{}{}
	}
	return reachable
}

// RemoveInaccessible Returns a new automaton restricted to the states
// reachable from the start state. Unreachable accept states are dropped; they
// never affect the recognized language.
func (d *DFA) RemoveInaccessible() *DFA {
	reachable := d.Accessible()

	out := &DFA{
		States:      reachable,
		Alphabet:    make(map[string]struct{}, len(d.Alphabet)),
		Transitions: make(map[Transition]string, len(d.Transitions)),
		Start:       d.Start,
		Finals:      make(map[string]struct{}),
	}
	for a := range d.Alphabet {
		out.Alphabet[a] = struct{}{}
	}
	for k, dest := range d.Transitions {
		if _, ok := reachable[k.State]; !ok {
			continue
		}
		if _, ok := reachable[dest]; !ok {
			continue
		}
		out.Transitions[k] = dest
	}
	for f := range d.Finals {
		if _, ok := reachable[f]; ok {
			out.Finals[f] = struct{}{}
		}
	}
	return out
}

// refinePartition splits every group by state signature: for each alphabet
// symbol, the index of the group holding the successor, or -1 when the
// transition is undefined. States sharing a signature stay together.
// Subgroups keep first-seen order over ascending state index, so refinement
// only ever subdivides groups in place.
func refinePartition(d *DFA, partition []*bitset.BitSet, states, alphabet []string, index map[string]int) []*bitset.BitSet {
	groupOf := make([]int, len(states))
	for gi, group := range partition {
		for i, ok := group.NextSet(0); ok; i, ok = group.NextSet(i + 1) {
			groupOf[i] = gi
		}
	}

	result := make([]*bitset.BitSet, 0, len(partition))
	for _, group := range partition {
		subgroups := make(map[string]*bitset.BitSet)
		var order []string

		for i, ok := group.NextSet(0); ok; i, ok = group.NextSet(i + 1) {
			sig := signature(d, states[i], alphabet, groupOf, index)
			sub, seen := subgroups[sig]
			if !seen {
				sub = bitset.New(uint(len(states)))
				subgroups[sig] = sub
				order = append(order, sig)
			}
			sub.Set(i)
		}

		for _, sig := range order {
			result = append(result, subgroups[sig])
		}
	}
	return result
}

func signature(d *DFA, state string, alphabet []string, groupOf []int, index map[string]int) string {
	parts := make([]string, len(alphabet))
	for i, symbol := range alphabet {
		next, ok := d.Step(state, symbol)
		if !ok {
			parts[i] = "-1"
			continue
		}
		parts[i] = strconv.Itoa(groupOf[index[next]])
	}
	return strings.Join(parts, ",")
}

func partitionsEqual(a, b []*bitset.BitSet) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// quotient collapses each partition group into a representative state q{i}
// and remaps the transitions, start state, and final states through the
// group-to-representative mapping.
func quotient(d *DFA, partition []*bitset.BitSet, states []string) *DFA {
	rep := make(map[string]string, len(states))
	for gi, group := range partition {
		name := fmt.Sprintf("q%d", gi)
		for i, ok := group.NextSet(0); ok; i, ok = group.NextSet(i + 1) {
			rep[states[i]] = name
		}
	}

	out := &DFA{
		States:      make(map[string]struct{}, len(partition)),
		Alphabet:    make(map[string]struct{}, len(d.Alphabet)),
		Transitions: make(map[Transition]string),
		Start:       rep[d.Start],
		Finals:      make(map[string]struct{}),
	}
	for s := range d.States {
		out.States[rep[s]] = struct{}{}
	}
	for a := range d.Alphabet {
		out.Alphabet[a] = struct{}{}
	}
	for k, dest := range d.Transitions {
		out.Transitions[Transition{State: rep[k.State], Symbol: k.Symbol}] = rep[dest]
	}
	for f := range d.Finals {
		out.Finals[rep[f]] = struct{}{}
	}
	return out
}
