// Completion: 100% - Modifier parser complete
package feature

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/xyproto/a64target/internal/engine"
)

// ErrMalformedModifier is returned for tokens that are not "+name" or "-name"
var ErrMalformedModifier = errors.New("malformed feature modifier")

// Parse turns a modifier string such as "+neon,-crc,+reserve-x18" into a Set.
//
// Tokens are separated by commas; surrounding whitespace and empty tokens are
// ignored. A token without a leading '+' or '-' is an error. When known is
// non-empty, names outside it produce a warning diagnostic (with a suggestion
// if one is close) but are still kept: the resolver treats them as no-ops.
func Parse(modifiers string, known []string) (Set, []Diagnostic, error) {
	var (
		set   Set
		diags []Diagnostic
	)

	var vocabulary map[string]bool
	if len(known) > 0 {
		vocabulary = make(map[string]bool, len(known))
		for _, k := range known {
			vocabulary[k] = true
		}
	}

	offset := 0
	for _, raw := range strings.Split(modifiers, ",") {
		column := offset + 1 + (len(raw) - len(strings.TrimLeft(raw, " \t")))
		offset += len(raw) + 1

		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}

		var enabled bool
		switch tok[0] {
		case '+':
			enabled = true
		case '-':
			enabled = false
		default:
			return Set{}, diags, errors.Wrapf(ErrMalformedModifier, "token %q at column %d must start with '+' or '-'", tok, column)
		}

		name := tok[1:]
		if name == "" {
			return Set{}, diags, errors.Wrapf(ErrMalformedModifier, "token %q at column %d has no feature name", tok, column)
		}

		if vocabulary != nil && !vocabulary[name] {
			d := Diagnostic{
				Level:     LevelWarning,
				Message:   fmt.Sprintf("'%s' is not a recognized feature for this target (ignoring feature)", tok),
				Modifiers: modifiers,
				Column:    column,
				Length:    len(tok),
			}
			if s := engine.Suggest(name, known); s != "" {
				d.Context.Suggestion = fmt.Sprintf("did you mean '%c%s'?", tok[0], s)
			}
			diags = append(diags, d)
		}

		set.Add(name, enabled)
	}

	return set, diags, nil
}
