package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Run(t *testing.T) {
	d, err := NewDFA(
		[]string{"even", "odd"},
		[]string{"a", "b"},
		map[Transition]string{
			{"even", "a"}: "odd",
			{"odd", "a"}:  "even",
			{"even", "b"}: "even",
		},
		"even",
		[]string{"even"},
	)
	assert.Nil(t, err)

	t.Run("testAccepts", func(t *testing.T) {
		assert.True(t, Run(d, nil))
		assert.True(t, Run(d, []string{"a", "a"}))
		assert.True(t, Run(d, []string{"b", "a", "a", "b"}))
		assert.False(t, Run(d, []string{"a"}))
		assert.False(t, Run(d, []string{"a", "a", "a"}))
	})

	t.Run("testUndefinedTransitionRejects", func(t *testing.T) {
		// No transition for (odd, b).
		assert.False(t, Run(d, []string{"a", "b"}))
		assert.False(t, Run(d, []string{"a", "b", "a"}))
	})

	t.Run("testStep", func(t *testing.T) {
		next, ok := d.Step("even", "a")
		assert.True(t, ok)
		assert.Equal(t, "odd", next)

		_, ok = d.Step("odd", "b")
		assert.False(t, ok)
	})

	t.Run("testRunString", func(t *testing.T) {
		assert.True(t, RunString(d, "aa"))
		assert.False(t, RunString(d, "a"))
	})
}
