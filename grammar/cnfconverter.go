package grammar

import (
	"fmt"
)

// Converter rewrites a grammar into Chomsky Normal Form. It owns the fresh
// variable counter and the terminal-to-variable map, so one Converter serves
// one conversion; do not share an instance across concurrent conversions.
type Converter struct {
	counter  int
	termVars map[string]string
}

func NewConverter() *Converter {
	return &Converter{
		termVars: make(map[string]string),
	}
}

// Convert Returns a new grammar in CNF generating the same language as g:
// every body is a single terminal or a pair of variables, with at most one ε
// body on a synthesized start variable when the language contains the empty
// string. g itself is left untouched.
func (c *Converter) Convert(g *Grammar) (*Grammar, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	out := c.EliminateEpsilon(g)
	out = c.EliminateUnit(out)
	out = c.IsolateTerminals(out)
	out = c.Binarize(out)
	return out, nil
}

// EliminateEpsilon Returns a new grammar without ε bodies, except on a fresh
// start variable synthesized when the original start is nullable. For every
// body, each subset of its nullable symbols is also emitted with that subset
// deleted, so the derivable strings are unchanged.
func (c *Converter) EliminateEpsilon(g *Grammar) *Grammar {
	out := g.Clone()
	vars := out.SortedVariables()

	// Nullable fixpoint: a variable is nullable if it has an ε body or a
	// body made entirely of nullable symbols.
	nullable := make(map[string]struct{})
	for {
		added := false
		for _, v := range vars {
			if _, ok := nullable[v]; ok {
				continue
			}
			for _, body := range out.Productions[v] {
				if body.IsEpsilon() {
					nullable[v] = struct{}{}
					added = true
					break
				}
				allNullable := true
				for _, sym := range body {
					if _, ok := nullable[sym]; !ok {
						allNullable = false
						break
					}
				}
				if allNullable {
					nullable[v] = struct{}{}
					added = true
					break
				}
			}
		}
		if !added {
			break
		}
	}

	newProds := make(map[string][]Body, len(out.Productions))
	for _, v := range vars {
		newProds[v] = []Body{}
	}

	for _, v := range vars {
		for _, body := range out.Productions[v] {
			if body.IsEpsilon() {
				continue
			}

			var nullableIdx []int
			for i, sym := range body {
				if _, ok := nullable[sym]; ok {
					nullableIdx = append(nullableIdx, i)
				}
			}

			// Every subset of nullable positions, full body first.
			for mask := 0; mask < 1<<len(nullableIdx); mask++ {
				omit := make(map[int]struct{}, len(nullableIdx))
				for j, idx := range nullableIdx {
					if (mask>>j)&1 == 1 {
						omit[idx] = struct{}{}
					}
				}
				variant := make(Body, 0, len(body))
				for i, sym := range body {
					if _, ok := omit[i]; !ok {
						variant = append(variant, sym)
					}
				}
				if len(variant) == 0 {
					continue
				}
				if !containsBody(newProds[v], variant) {
					newProds[v] = append(newProds[v], variant)
				}
			}
		}
	}

	start := out.Start
	if _, ok := nullable[start]; ok {
		newStart := c.freshVariable(out.Variables)
		out.Variables[newStart] = struct{}{}
		newProds[newStart] = []Body{{}, {start}}
		start = newStart
	}

	out.Productions = newProds
	out.Start = start
	return out
}

// EliminateUnit Returns a new grammar without unit productions (bodies that
// are exactly one variable). Each variable's bodies become the union of the
// non-unit bodies over its unit closure, in first-seen order.
func (c *Converter) EliminateUnit(g *Grammar) *Grammar {
	out := g.Clone()
	vars := out.SortedVariables()

	newProds := make(map[string][]Body, len(out.Productions))
	for _, a := range vars {
		closure := c.unitClosure(out, a)

		bodies := []Body{}
		for _, b := range closure {
			for _, body := range out.Productions[b] {
				if isUnit(out, body) {
					continue
				}
				if !containsBody(bodies, body) {
					bodies = append(bodies, body.clone())
				}
			}
		}
		newProds[a] = bodies
	}

	out.Productions = newProds
	return out
}

// unitClosure computes the reflexive closure of a over unit productions,
// breadth-first in production order so the result is deterministic.
func (c *Converter) unitClosure(g *Grammar, a string) []string {
	closure := []string{a}
	seen := map[string]struct{}{a: {}}
	for i := 0; i < len(closure); i++ {
		for _, body := range g.Productions[closure[i]] {
			if !isUnit(g, body) {
				continue
			}
			if _, ok := seen[body[0]]; ok {
				continue
			}
			seen[body[0]] = struct{}{}
			closure = append(closure, body[0])
		}
	}
	return closure
}

func isUnit(g *Grammar, body Body) bool {
	return len(body) == 1 && g.IsVariable(body[0])
}

// IsolateTerminals Returns a new grammar where no body of length ≥ 2 contains
// a terminal: each terminal occurrence in such a body is replaced by a fresh
// variable producing only that terminal, one fresh variable per distinct
// terminal for the whole conversion.
func (c *Converter) IsolateTerminals(g *Grammar) *Grammar {
	out := g.Clone()
	vars := out.SortedVariables()

	for _, v := range vars {
		bodies := out.Productions[v]
		for i, body := range bodies {
			if len(body) <= 1 {
				continue
			}
			if len(body) == 2 && out.IsVariable(body[0]) && out.IsVariable(body[1]) {
				continue
			}

			replaced := make(Body, len(body))
			for j, sym := range body {
				if !out.IsTerminal(sym) {
					replaced[j] = sym
					continue
				}
				tv, ok := c.termVars[sym]
				if !ok {
					tv = c.freshVariable(out.Variables)
					c.termVars[sym] = tv
					out.Variables[tv] = struct{}{}
					out.Productions[tv] = []Body{{sym}}
				}
				replaced[j] = tv
			}
			bodies[i] = replaced
		}
	}

	return out
}

// Binarize Returns a new grammar where every body has length ≤ 2, rewriting
// longer bodies into right-branching chains of fresh variables: the head
// keeps the first symbol plus a fresh variable, each fresh variable holds the
// next symbol plus the following fresh variable, and the last fresh variable
// holds the final two symbols.
func (c *Converter) Binarize(g *Grammar) *Grammar {
	out := g.Clone()
	vars := out.SortedVariables()

	newProds := make(map[string][]Body, len(out.Productions))
	for _, v := range vars {
		newProds[v] = []Body{}
	}

	for _, v := range vars {
		for _, body := range out.Productions[v] {
			if len(body) <= 2 {
				if !containsBody(newProds[v], body) {
					newProds[v] = append(newProds[v], body.clone())
				}
				continue
			}

			cur := v
			for i := 0; i < len(body)-2; i++ {
				next := c.freshVariable(out.Variables)
				out.Variables[next] = struct{}{}
				newProds[next] = []Body{}
				newProds[cur] = append(newProds[cur], Body{body[i], next})
				cur = next
			}
			newProds[cur] = append(newProds[cur], Body{body[len(body)-2], body[len(body)-1]})
		}
	}

	out.Productions = newProds
	return out
}

// freshVariable returns the next Xn name not already taken as a variable.
func (c *Converter) freshVariable(taken map[string]struct{}) string {
	for {
		name := fmt.Sprintf("X%d", c.counter)
		c.counter++
		if _, ok := taken[name]; !ok {
			return name
		}
	}
}
