package xmldoc

import (
	"fmt"
	"sort"
	"strings"
)

// Fragment is a parsed single-element XML snippet as declared by a plugin.
type Fragment struct {
	doc  *Document
	text string
}

// ParseFragment parses a snippet that must contain exactly one element.
func ParseFragment(fragment string) (*Fragment, error) {
	text := strings.TrimSpace(fragment)

	doc, err := Parse([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("fragment: %w", err)
	}

	return &Fragment{doc: doc, text: text}, nil
}

// SplitFragments breaks a snippet with several top-level elements into one
// trimmed snippet per element. Text between elements must be whitespace.
func SplitFragments(snippet string) ([]string, error) {
	const wrapper = "plugdroid-fragments"

	doc, err := Parse([]byte("<" + wrapper + ">" + snippet + "</" + wrapper + ">"))
	if err != nil {
		return nil, fmt.Errorf("fragment: %w", err)
	}

	parts := make([]string, 0, len(doc.Root.Children))
	pos := doc.Root.TagEnd

	for _, child := range doc.Root.Children {
		if between := strings.TrimSpace(string(doc.data[pos:child.Start])); between != "" && !isComment(between) {
			return nil, fmt.Errorf("fragment: unexpected text %q between elements", between)
		}

		parts = append(parts, dedent(doc, child))
		pos = child.End
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("fragment: no element found")
	}

	return parts, nil
}

// Root returns the fragment's element.
func (f *Fragment) Root() *Node {
	return f.doc.Root
}

// Text returns the trimmed snippet.
func (f *Fragment) Text() string {
	return f.text
}

// Canonical returns the structural form of the fragment.
func (f *Fragment) Canonical() string {
	return canonical(f.doc.data, f.doc.Root)
}

// Canonical returns the structural form of a snippet: attributes sorted,
// insignificant whitespace dropped, empty elements self-closed. Two snippets
// describe the same element exactly when their canonical forms are equal.
func Canonical(fragment string) (string, error) {
	f, err := ParseFragment(fragment)
	if err != nil {
		return "", err
	}

	return f.Canonical(), nil
}

func canonical(data []byte, n *Node) string {
	var b strings.Builder

	writeCanonical(&b, data, n)

	return b.String()
}

func writeCanonical(b *strings.Builder, data []byte, n *Node) {
	attrs := append([]Attr(nil), n.Attrs...)
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })

	b.WriteString("<")
	b.WriteString(n.Name)

	for _, attr := range attrs {
		fmt.Fprintf(b, " %s=%q", attr.Name, attr.Value)
	}

	var inner strings.Builder

	pos := n.TagEnd
	for _, child := range n.Children {
		writeText(&inner, data[pos:child.Start])
		writeCanonical(&inner, data, child)
		pos = child.End
	}

	if !n.SelfClosing {
		writeText(&inner, data[pos:n.CloseStart])
	}

	if inner.Len() == 0 {
		b.WriteString("/>")
		return
	}

	b.WriteString(">")
	b.WriteString(inner.String())
	b.WriteString("</")
	b.WriteString(n.Name)
	b.WriteString(">")
}

func writeText(b *strings.Builder, raw []byte) {
	text := strings.Join(strings.Fields(string(raw)), " ")
	if text == "" || isComment(text) {
		return
	}

	b.WriteString(text)
}

func isComment(text string) bool {
	return strings.HasPrefix(text, "<!--") && strings.HasSuffix(text, "-->")
}

// dedent returns the element's text with the indentation of its first line
// removed from continuation lines.
func dedent(doc *Document, n *Node) string {
	text := doc.Text(n)

	indent := lineIndent(doc.data, n.Start)
	if indent == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.TrimPrefix(lines[i], indent)
	}

	return strings.Join(lines, "\n")
}

// matchesSubset reports whether n has the fragment's name and every one of
// its attributes with an equal value.
func matchesSubset(n *Node, frag *Node) bool {
	if n.Name != frag.Name {
		return false
	}

	for _, attr := range frag.Attrs {
		value, ok := n.Attr(attr.Name)
		if !ok || value != attr.Value {
			return false
		}
	}

	return true
}
