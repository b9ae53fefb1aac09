package xmldoc

import (
	"errors"
	"fmt"
	"strings"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

// ErrInvalidSelector is returned for selectors that cannot be parsed.
var ErrInvalidSelector = errors.New("invalid selector")

type predicate struct {
	attr  string
	value string
}

type step struct {
	name  string // "*" matches any element
	preds []predicate
}

func (s step) matches(n *Node) bool {
	if s.name != "*" && s.name != n.Name {
		return false
	}

	for _, pred := range s.preds {
		value, ok := n.Attr(pred.attr)
		if !ok || value != pred.value {
			return false
		}
	}

	return true
}

// compiled is a parsed selector. Absolute selectors start matching at the
// root element; relative ones start at the root's children.
type compiled struct {
	absolute bool
	steps    []step
}

// compile parses the selector grammar:
//
//	"/" | "/*"                        the root element
//	/manifest/application             absolute element path
//	application/activity              path relative to the root element
//	activity[@android:name='.Main']   attribute predicates, ' or " quoted
func compile(sel m.Selector) (compiled, error) {
	raw := strings.TrimSpace(string(sel))
	if raw == "" || raw == "/" || raw == "/*" {
		return compiled{absolute: true}, nil
	}

	c := compiled{absolute: strings.HasPrefix(raw, "/")}

	parts, err := splitSteps(strings.TrimPrefix(raw, "/"))
	if err != nil {
		return compiled{}, fmt.Errorf("%w %q: %w", ErrInvalidSelector, sel, err)
	}

	for _, part := range parts {
		st, err := parseStep(part)
		if err != nil {
			return compiled{}, fmt.Errorf("%w %q: %w", ErrInvalidSelector, sel, err)
		}

		c.steps = append(c.steps, st)
	}

	return c, nil
}

func splitSteps(raw string) ([]string, error) {
	var (
		parts []string
		depth int
		quote rune
		last  int
	)

	for i, r := range raw {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '[':
			depth++
		case r == ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced ']' at %d", i)
			}
		case r == '/' && depth == 0:
			parts = append(parts, raw[last:i])
			last = i + 1
		}
	}

	if depth != 0 || quote != 0 {
		return nil, fmt.Errorf("unterminated predicate")
	}

	parts = append(parts, raw[last:])

	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("empty step")
		}
	}

	return parts, nil
}

func parseStep(raw string) (step, error) {
	name, _, _ := strings.Cut(raw, "[")
	if name == "" {
		return step{}, fmt.Errorf("step %q has no element name", raw)
	}

	st := step{name: name}

	for i := len(name); i < len(raw); {
		if !strings.HasPrefix(raw[i:], "[@") {
			return step{}, fmt.Errorf("step %q: predicates must look like [@attr='value']", raw)
		}

		i += 2

		eq := strings.IndexByte(raw[i:], '=')
		if eq < 0 {
			return step{}, fmt.Errorf("step %q: predicate is missing '='", raw)
		}

		attr := strings.TrimSpace(raw[i : i+eq])
		i += eq + 1

		if i >= len(raw) || (raw[i] != '\'' && raw[i] != '"') {
			return step{}, fmt.Errorf("step %q: predicate value must be quoted", raw)
		}

		quote := raw[i]
		i++

		closing := strings.IndexByte(raw[i:], quote)
		if closing < 0 {
			return step{}, fmt.Errorf("step %q: unterminated predicate value", raw)
		}

		value := raw[i : i+closing]
		i += closing + 1

		if i >= len(raw) || raw[i] != ']' {
			return step{}, fmt.Errorf("step %q: predicate is missing ']'", raw)
		}

		i++

		st.preds = append(st.preds, predicate{attr: attr, value: value})
	}

	return st, nil
}

// Find returns the first element in document order matching the selector.
func Find(doc *Document, sel m.Selector) (*Node, error) {
	c, err := compile(sel)
	if err != nil {
		return nil, err
	}

	if len(c.steps) == 0 {
		return doc.Root, nil
	}

	var found *Node

	if c.absolute {
		found = walk(doc.Root, c.steps)
	} else {
		for _, child := range doc.Root.Children {
			if found = walk(child, c.steps); found != nil {
				break
			}
		}
	}

	if found == nil {
		return nil, fmt.Errorf("%w: %s", m.ErrSelectorNotFound, sel)
	}

	return found, nil
}

// ValidateSelector reports syntax errors without needing a document.
func ValidateSelector(sel m.Selector) error {
	_, err := compile(sel)
	return err
}

func walk(n *Node, steps []step) *Node {
	if !steps[0].matches(n) {
		return nil
	}

	if len(steps) == 1 {
		return n
	}

	for _, child := range n.Children {
		if found := walk(child, steps[1:]); found != nil {
			return found
		}
	}

	return nil
}
