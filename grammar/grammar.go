package grammar

import (
	"fmt"
	"sort"
	"strings"
)

// Epsilon is the rendering of the empty production body.
const Epsilon = "ε"

// Body is one production body: a sequence of symbols, each of which is a
// variable or a terminal of the owning grammar. A zero-length Body is ε.
type Body []string

// IsEpsilon reports whether the body derives the empty string directly.
func (b Body) IsEpsilon() bool {
	return len(b) == 0
}

// Equal reports whether two bodies are the same symbol sequence.
func (b Body) Equal(other Body) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if b[i] != other[i] {
			return false
		}
	}
	return true
}

func (b Body) String() string {
	if b.IsEpsilon() {
		return Epsilon
	}
	return strings.Join(b, " ")
}

func (b Body) clone() Body {
	if len(b) == 0 {
		return Body{}
	}
	out := make(Body, len(b))
	copy(out, b)
	return out
}

// Grammar Represents a context-free grammar: a set of variables, a set of
// terminals disjoint from it, an ordered list of production bodies per
// variable, and a designated start variable. Pipeline stages never mutate a
// Grammar; each stage returns a new value and the input stays usable.
type Grammar struct {
	Variables   map[string]struct{}
	Terminals   map[string]struct{}
	Productions map[string][]Body
	Start       string
}

// NewGrammar builds a grammar from the given symbol sets and productions and
// validates it. The productions map may omit variables that have no bodies.
func NewGrammar(variables, terminals []string, productions map[string][]Body, start string) (*Grammar, error) {
	g := &Grammar{
		Variables:   make(map[string]struct{}, len(variables)),
		Terminals:   make(map[string]struct{}, len(terminals)),
		Productions: make(map[string][]Body, len(productions)),
		Start:       start,
	}
	for _, v := range variables {
		g.Variables[v] = struct{}{}
	}
	for _, t := range terminals {
		g.Terminals[t] = struct{}{}
	}
	for v, bodies := range productions {
		cloned := make([]Body, len(bodies))
		for i, b := range bodies {
			cloned[i] = b.clone()
		}
		g.Productions[v] = cloned
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the grammar's structural invariants: the start symbol is a
// variable, variables and terminals are disjoint, every production belongs to
// a variable, and every body symbol is a variable or a terminal.
func (g *Grammar) Validate() error {
	if _, ok := g.Variables[g.Start]; !ok {
		return fmt.Errorf("start symbol (%s) is not a variable", g.Start)
	}
	for t := range g.Terminals {
		if _, ok := g.Variables[t]; ok {
			return fmt.Errorf("symbol (%s) is both a variable and a terminal", t)
		}
	}
	for v, bodies := range g.Productions {
		if _, ok := g.Variables[v]; !ok {
			return fmt.Errorf("production head (%s) is not a variable", v)
		}
		for _, body := range bodies {
			for _, sym := range body {
				if !g.IsVariable(sym) && !g.IsTerminal(sym) {
					return fmt.Errorf("symbol (%s) in production of %s is neither a variable nor a terminal", sym, v)
				}
			}
		}
	}
	return nil
}

// IsVariable Returns true if sym is a variable of the grammar.
func (g *Grammar) IsVariable(sym string) bool {
	_, ok := g.Variables[sym]
	return ok
}

// IsTerminal Returns true if sym is a terminal of the grammar.
func (g *Grammar) IsTerminal(sym string) bool {
	_, ok := g.Terminals[sym]
	return ok
}

// Clone Returns a deep copy sharing no mutable state with the receiver.
func (g *Grammar) Clone() *Grammar {
	out := &Grammar{
		Variables:   make(map[string]struct{}, len(g.Variables)),
		Terminals:   make(map[string]struct{}, len(g.Terminals)),
		Productions: make(map[string][]Body, len(g.Productions)),
		Start:       g.Start,
	}
	for v := range g.Variables {
		out.Variables[v] = struct{}{}
	}
	for t := range g.Terminals {
		out.Terminals[t] = struct{}{}
	}
	for v, bodies := range g.Productions {
		cloned := make([]Body, len(bodies))
		for i, b := range bodies {
			cloned[i] = b.clone()
		}
		out.Productions[v] = cloned
	}
	return out
}

// SortedVariables Returns the variables in lexicographic order. All pipeline
// stages iterate in this order so conversions are reproducible.
func (g *Grammar) SortedVariables() []string {
	vars := make([]string, 0, len(g.Variables))
	for v := range g.Variables {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	return vars
}

// SortedTerminals Returns the terminals in lexicographic order.
func (g *Grammar) SortedTerminals() []string {
	terms := make([]string, 0, len(g.Terminals))
	for t := range g.Terminals {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// BodiesOf Returns the production bodies of v, in production order.
func (g *Grammar) BodiesOf(v string) []Body {
	return g.Productions[v]
}

// String renders one "V -> body" line per production, variables in sorted
// order, bodies in production order. Readability only; no semantic contract.
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, v := range g.SortedVariables() {
		for _, body := range g.Productions[v] {
			sb.WriteString(v)
			sb.WriteString(" -> ")
			sb.WriteString(body.String())
			sb.WriteString("\n")
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func containsBody(bodies []Body, b Body) bool {
	for _, have := range bodies {
		if have.Equal(b) {
			return true
		}
	}
	return false
}
