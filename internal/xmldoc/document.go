// Package xmldoc is a byte-preserving XML document model. Documents are
// parsed into an element tree that remembers where every element lives in
// the original bytes, and every edit is a splice of those bytes, so content
// outside the edited node (comments, formatting, unmanaged attributes) is
// never re-serialised.
package xmldoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Attr is an attribute as it appears on an element, prefix included.
type Attr struct {
	Name  string
	Value string
}

// Node is an element of a parsed document. Offsets index Document bytes.
type Node struct {
	Name  string
	Attrs []Attr

	// Start is the offset of '<' of the start tag.
	Start int
	// TagEnd is the offset just past the start tag.
	TagEnd int
	// CloseStart is the offset of the end tag, equal to TagEnd when self-closing.
	CloseStart int
	// End is the offset just past the element.
	End int

	SelfClosing bool
	Parent      *Node
	Children    []*Node
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, attr := range n.Attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}

	return "", false
}

// Index returns the position of n among its parent's children, or -1.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}

	for i, child := range n.Parent.Children {
		if child == n {
			return i
		}
	}

	return -1
}

// Document is an immutable parsed XML file.
type Document struct {
	data []byte
	Root *Node
}

// Parse builds a document from raw bytes.
func Parse(data []byte) (*Document, error) {
	doc := &Document{data: append([]byte(nil), data...)}

	dec := xml.NewDecoder(bytes.NewReader(doc.data))

	var stack []*Node

	for {
		start := int(dec.InputOffset())

		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		end := int(dec.InputOffset())

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Name:   qualifiedName(t.Name),
				Attrs:  convertAttrs(t.Attr),
				Start:  start,
				TagEnd: end,
			}

			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				node.Parent = parent
				parent.Children = append(parent.Children, node)
			} else {
				if doc.Root != nil {
					return nil, fmt.Errorf("parse xml: multiple root elements (%s, %s)", doc.Root.Name, node.Name)
				}

				doc.Root = node
			}

			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parse xml: unexpected end element </%s>", qualifiedName(t.Name))
			}

			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if name := qualifiedName(t.Name); name != node.Name {
				return nil, fmt.Errorf("parse xml: element <%s> closed by </%s>", node.Name, name)
			}

			// A self-closing tag yields a synthetic end element that
			// consumes no input.
			if end == start {
				node.SelfClosing = true
				node.CloseStart = node.TagEnd
				node.End = node.TagEnd
			} else {
				node.CloseStart = start
				node.End = end
			}
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("parse xml: element <%s> is never closed", stack[len(stack)-1].Name)
	}

	if doc.Root == nil {
		return nil, fmt.Errorf("parse xml: no root element")
	}

	return doc, nil
}

// Bytes returns a copy of the document content.
func (d *Document) Bytes() []byte {
	return append([]byte(nil), d.data...)
}

// Text returns the raw bytes of a node as a string.
func (d *Document) Text(n *Node) string {
	return string(d.data[n.Start:n.End])
}

func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}

	return name.Space + ":" + name.Local
}

func convertAttrs(attrs []xml.Attr) []Attr {
	out := make([]Attr, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, Attr{Name: qualifiedName(attr.Name), Value: attr.Value})
	}

	return out
}

// splice returns a new buffer with data[start:end] replaced by insert.
func splice(data []byte, start, end int, insert string) []byte {
	out := make([]byte, 0, len(data)-(end-start)+len(insert))
	out = append(out, data[:start]...)
	out = append(out, insert...)
	out = append(out, data[end:]...)

	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// leadStart walks back from pos over whitespace, never crossing floor.
func leadStart(data []byte, pos, floor int) int {
	for pos > floor && isSpace(data[pos-1]) {
		pos--
	}

	return pos
}

// lineIndent returns the whitespace between the start of pos's line and pos,
// or "" when other content precedes pos on that line.
func lineIndent(data []byte, pos int) string {
	i := pos
	for i > 0 && (data[i-1] == ' ' || data[i-1] == '\t') {
		i--
	}

	if i > 0 && data[i-1] != '\n' && data[i-1] != '\r' {
		return ""
	}

	return string(data[i:pos])
}

// contentEnd is where new trailing children of n are inserted: before the
// whitespace that precedes the end tag.
func contentEnd(data []byte, n *Node) int {
	return leadStart(data, n.CloseStart, n.TagEnd)
}
