package xmldoc

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
)

const defaultIndentUnit = "    "

// ApplyEdit applies edit at the node selected by sel. It never modifies doc;
// the returned document is built by splicing doc's bytes, and the capture
// holds what RevertEdit needs to undo the change exactly.
//
// add-child is idempotent: when an equal child already exists the input
// document is returned unchanged with a Preexisting capture, and reverting
// that capture leaves the child in place.
func ApplyEdit(doc *Document, sel m.Selector, edit m.Edit) (*Document, m.Capture, error) {
	if err := edit.Validate(); err != nil {
		return nil, m.Capture{}, err
	}

	parent, err := Find(doc, sel)
	if err != nil {
		return nil, m.Capture{}, err
	}

	switch edit.Kind {
	case m.EditAddChild:
		return addChild(doc, parent, edit.XML)
	case m.EditRemoveChild:
		return removeChild(doc, parent, sel, edit.XML)
	default:
		names := make([]string, 0, len(edit.Attrs))
		for _, attr := range edit.Attrs {
			names = append(names, attr.Name)
		}

		baselines, err := readAttributes(doc, parent, names)
		if err != nil {
			return nil, m.Capture{}, err
		}

		out, err := rewriteAttributes(doc, parent, setChanges(edit.AttrMap()))
		if err != nil {
			return nil, m.Capture{}, err
		}

		return out, m.Capture{Baselines: baselines}, nil
	}
}

// RevertEdit undoes an edit previously applied with ApplyEdit.
func RevertEdit(doc *Document, sel m.Selector, edit m.Edit, capture m.Capture) (*Document, error) {
	if err := edit.Validate(); err != nil {
		return nil, err
	}

	parent, err := Find(doc, sel)
	if err != nil {
		return nil, err
	}

	switch edit.Kind {
	case m.EditAddChild:
		return revertAdd(doc, parent, sel, edit.XML, capture)
	case m.EditRemoveChild:
		return revertRemove(doc, parent, edit.XML, capture)
	default:
		return RestoreAttributes(doc, sel, capture.Baselines)
	}
}

func addChild(doc *Document, parent *Node, fragment string) (*Document, m.Capture, error) {
	frag, err := ParseFragment(fragment)
	if err != nil {
		return nil, m.Capture{}, err
	}

	want := frag.Canonical()
	for _, child := range parent.Children {
		if canonical(doc.data, child) == want {
			return doc, m.Capture{Preexisting: true}, nil
		}
	}

	data := doc.data
	nl := newline(data)
	parentIndent := lineIndent(data, parent.Start)
	lead := childLead(data, parent, nl, parentIndent)
	body := reindent(frag.Text(), strings.TrimLeft(lead, "\r\n"))

	if parent.SelfClosing {
		tag := string(data[parent.Start:parent.TagEnd])
		open := strings.TrimRight(strings.TrimSuffix(tag, "/>"), " \t\r\n")
		suffix := tag[len(open):]
		expanded := open + ">" + lead + body + nl + parentIndent + "</" + parent.Name + ">"

		out, err := Parse(splice(data, parent.Start, parent.TagEnd, expanded))
		if err != nil {
			return nil, m.Capture{}, err
		}

		return out, m.Capture{Expanded: true, Suffix: suffix}, nil
	}

	pos := contentEnd(data, parent)

	out, err := Parse(splice(data, pos, pos, lead+body))
	if err != nil {
		return nil, m.Capture{}, err
	}

	return out, m.Capture{}, nil
}

func revertAdd(doc *Document, parent *Node, sel m.Selector, fragment string, capture m.Capture) (*Document, error) {
	if capture.Preexisting {
		return doc, nil
	}

	frag, err := ParseFragment(fragment)
	if err != nil {
		return nil, err
	}

	want := frag.Canonical()

	var target *Node

	for i := len(parent.Children) - 1; i >= 0; i-- {
		if canonical(doc.data, parent.Children[i]) == want {
			target = parent.Children[i]
			break
		}
	}

	if target == nil {
		return nil, fmt.Errorf("%w: no child %s under %s", m.ErrSelectorNotFound, want, sel)
	}

	start := leadStart(doc.data, target.Start, parent.TagEnd)

	out, err := Parse(splice(doc.data, start, target.End, ""))
	if err != nil {
		return nil, err
	}

	if !capture.Expanded {
		return out, nil
	}

	emptied, err := Find(out, sel)
	if err != nil {
		return nil, err
	}

	inner := out.data[emptied.TagEnd:emptied.CloseStart]
	if emptied.SelfClosing || len(emptied.Children) > 0 || len(bytes.TrimSpace(inner)) > 0 {
		return out, nil
	}

	tag := string(out.data[emptied.Start:emptied.TagEnd])
	collapsed := strings.TrimSuffix(tag, ">") + capture.Suffix

	return Parse(splice(out.data, emptied.Start, emptied.End, collapsed))
}

func removeChild(doc *Document, parent *Node, sel m.Selector, fragment string) (*Document, m.Capture, error) {
	frag, err := ParseFragment(fragment)
	if err != nil {
		return nil, m.Capture{}, err
	}

	for i, child := range parent.Children {
		if !matchesSubset(child, frag.Root()) {
			continue
		}

		start := leadStart(doc.data, child.Start, parent.TagEnd)
		removed := string(doc.data[start:child.End])

		out, err := Parse(splice(doc.data, start, child.End, ""))
		if err != nil {
			return nil, m.Capture{}, err
		}

		return out, m.Capture{Removed: removed, Index: i}, nil
	}

	return nil, m.Capture{}, fmt.Errorf("%w: no child matching %s under %s", m.ErrSelectorNotFound, frag.Canonical(), sel)
}

func revertRemove(doc *Document, parent *Node, fragment string, capture m.Capture) (*Document, error) {
	// Without the removed bytes (a rebuilt store) the best we can do is
	// put the declared fragment back.
	if capture.Removed == "" || parent.SelfClosing {
		out, _, err := addChild(doc, parent, fragment)
		return out, err
	}

	var pos int
	if capture.Index < len(parent.Children) {
		pos = leadStart(doc.data, parent.Children[capture.Index].Start, parent.TagEnd)
	} else {
		pos = contentEnd(doc.data, parent)
	}

	return Parse(splice(doc.data, pos, pos, capture.Removed))
}

// childLead is the text placed before a new last child: the line break and
// indentation used by the existing children, or the parent's indentation
// plus one unit when there are none.
func childLead(data []byte, parent *Node, nl, parentIndent string) string {
	if len(parent.Children) == 0 {
		return nl + parentIndent + defaultIndentUnit
	}

	last := parent.Children[len(parent.Children)-1]
	run := string(data[leadStart(data, last.Start, parent.TagEnd):last.Start])

	if i := strings.LastIndexByte(run, '\n'); i >= 0 {
		if i > 0 && run[i-1] == '\r' {
			i--
		}

		return run[i:]
	}

	return run
}

func reindent(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			lines[i] = indent + lines[i]
		}
	}

	return strings.Join(lines, "\n")
}

func newline(data []byte) string {
	if bytes.Contains(data, []byte("\r\n")) {
		return "\r\n"
	}

	return "\n"
}

// ReadAttributes returns the raw (still escaped) values of the named
// attributes on the selected node, recording absence too.
func ReadAttributes(doc *Document, sel m.Selector, names []string) (map[string]m.Baseline, error) {
	node, err := Find(doc, sel)
	if err != nil {
		return nil, err
	}

	return readAttributes(doc, node, names)
}

func readAttributes(doc *Document, node *Node, names []string) (map[string]m.Baseline, error) {
	tag := string(doc.data[node.Start:node.TagEnd])

	layout, err := scanStartTag(tag)
	if err != nil {
		return nil, err
	}

	out := make(map[string]m.Baseline, len(names))
	for _, name := range names {
		if span, ok := layout.find(name); ok {
			out[name] = m.Baseline{Present: true, Value: tag[span.valStart:span.valEnd]}
		} else {
			out[name] = m.Baseline{}
		}
	}

	return out, nil
}

// SetAttributes assigns plain (unescaped) values on the selected node and
// removes the attributes listed in unset.
func SetAttributes(doc *Document, sel m.Selector, set map[string]string, unset []string) (*Document, error) {
	node, err := Find(doc, sel)
	if err != nil {
		return nil, err
	}

	changes := setChanges(set)
	for _, name := range unset {
		changes = append(changes, attrChange{name: name, remove: true})
	}

	return rewriteAttributes(doc, node, changes)
}

// RestoreAttributes puts raw baseline values back, removing attributes that
// were absent.
func RestoreAttributes(doc *Document, sel m.Selector, baselines map[string]m.Baseline) (*Document, error) {
	if len(baselines) == 0 {
		return doc, nil
	}

	node, err := Find(doc, sel)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(baselines))
	for name := range baselines {
		names = append(names, name)
	}

	sort.Strings(names)

	changes := make([]attrChange, 0, len(names))
	for _, name := range names {
		base := baselines[name]
		changes = append(changes, attrChange{name: name, value: base.Value, raw: true, remove: !base.Present})
	}

	return rewriteAttributes(doc, node, changes)
}

type attrChange struct {
	name   string
	value  string
	raw    bool
	remove bool
}

func setChanges(set map[string]string) []attrChange {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}

	sort.Strings(names)

	changes := make([]attrChange, 0, len(names))
	for _, name := range names {
		changes = append(changes, attrChange{name: name, value: set[name]})
	}

	return changes
}

func rewriteAttributes(doc *Document, node *Node, changes []attrChange) (*Document, error) {
	original := string(doc.data[node.Start:node.TagEnd])
	tag := original

	for _, change := range changes {
		layout, err := scanStartTag(tag)
		if err != nil {
			return nil, err
		}

		span, exists := layout.find(change.name)

		switch {
		case change.remove && exists:
			tag = tag[:span.lead] + tag[span.end:]
		case change.remove:
			// already absent
		case exists:
			value := change.value
			if !change.raw {
				value = escapeAttr(value, span.quote)
			}

			tag = tag[:span.valStart] + value + tag[span.valEnd:]
		default:
			value := change.value
			if !change.raw {
				value = escapeAttr(value, '"')
			}

			insert := layout.separator(tag) + change.name + `="` + value + `"`
			tag = tag[:layout.close] + insert + tag[layout.close:]
		}
	}

	if tag == original {
		return doc, nil
	}

	return Parse(splice(doc.data, node.Start, node.TagEnd, tag))
}

func escapeAttr(value string, quote byte) string {
	var b strings.Builder

	for i := 0; i < len(value); i++ {
		switch c := value[i]; {
		case c == '&':
			b.WriteString("&amp;")
		case c == '<':
			b.WriteString("&lt;")
		case c == '"' && quote == '"':
			b.WriteString("&quot;")
		case c == '\'' && quote == '\'':
			b.WriteString("&apos;")
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
