package feature

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

var testVocabulary = []string{"neon", "crc", "crypto", "v8.1a", "v8.2a", "reserve-x18"}

func TestParseOrderAndState(t *testing.T) {
	set, diags, err := Parse("+neon, -crc,+crc,,+v8.1a", testVocabulary)
	assert.NilError(t, err)
	assert.Check(t, is.Len(diags, 0))

	assert.DeepEqual(t, set.Entries(), []Entry{
		{"neon", true},
		{"crc", false},
		{"crc", true},
		{"v8.1a", true},
	})
	assert.DeepEqual(t, set.Names(), []string{"neon", "crc", "v8.1a"})

	enabled, mentioned := set.Enabled("crc")
	assert.Check(t, enabled)
	assert.Check(t, mentioned)

	_, mentioned = set.Enabled("v8.2a")
	assert.Check(t, !mentioned)
	assert.Check(t, set.Mentions("neon"))
	assert.Check(t, !set.Mentions("sve"))
	assert.Equal(t, set.String(), "+neon,-crc,+crc,+v8.1a")
}

func TestParseEmpty(t *testing.T) {
	set, diags, err := Parse("", testVocabulary)
	assert.NilError(t, err)
	assert.Check(t, is.Len(diags, 0))
	assert.Equal(t, set.Len(), 0)
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{"neon", "+neon,crc", "+", "+neon,-"} {
		_, _, err := Parse(in, testVocabulary)
		assert.Check(t, errors.Is(err, ErrMalformedModifier), "input %q: %v", in, err)
	}
}

func TestParseUnknownFeatureWarns(t *testing.T) {
	set, diags, err := Parse("+neon,+crcc", testVocabulary)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(diags, 1))

	d := diags[0]
	assert.Equal(t, d.Level, LevelWarning)
	assert.Equal(t, d.Column, 7)
	assert.Equal(t, d.Length, 5)
	assert.Equal(t, d.Context.Suggestion, "did you mean '+crc'?")

	// Unknown names stay in the set; the resolver ignores them
	assert.Check(t, set.Mentions("crcc"))

	formatted := d.Format(false)
	assert.Check(t, is.Contains(formatted, "warning: '+crcc' is not a recognized feature"))
	assert.Check(t, is.Contains(formatted, "      ^^^^^"))

	report := Report(diags, false)
	assert.Check(t, strings.HasSuffix(report, "1 warning(s) found\n"))
}

func TestParseWithoutVocabulary(t *testing.T) {
	set, diags, err := Parse("+anything", nil)
	assert.NilError(t, err)
	assert.Check(t, is.Len(diags, 0))
	assert.Check(t, set.Mentions("anything"))
}

func TestConcat(t *testing.T) {
	a := Enable("neon", "crc")
	b := NewSet(Entry{"crc", false})
	c := a.Concat(b)

	assert.Equal(t, c.String(), "+neon,+crc,-crc")
	assert.Equal(t, a.Len(), 2)

	enabled, _ := c.Enabled("crc")
	assert.Check(t, !enabled)
}

func TestApplyVisitsInOrder(t *testing.T) {
	set := NewSet(Entry{"a", true}, Entry{"b", false}, Entry{"a", false})
	var seen []string
	set.Apply(func(name string, enabled bool) {
		seen = append(seen, Entry{name, enabled}.String())
	})
	assert.DeepEqual(t, seen, []string{"+a", "-b", "-a"})
}

func TestCloneIsIndependent(t *testing.T) {
	s := Enable("neon")
	c := s.Clone()
	c.Add("lse", true)
	s.Add("crc", false)

	assert.Check(t, is.Equal(s.String(), "+neon,-crc"))
	assert.Check(t, is.Equal(c.String(), "+neon,+lse"))
	assert.Check(t, !s.Mentions("lse"))
	assert.Check(t, !c.Mentions("crc"))
}
