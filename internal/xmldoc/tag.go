package xmldoc

import "fmt"

// attrSpan locates one attribute inside a start tag's text.
type attrSpan struct {
	name      string
	lead      int // start of the whitespace before the name
	nameStart int
	valStart  int // first byte inside the quotes
	valEnd    int // closing quote
	quote     byte
	end       int // just past the closing quote
}

type tagLayout struct {
	attrs []attrSpan
	// close is where a new attribute is inserted: after the last attribute
	// (or the element name), before the whitespace and the terminator.
	close int
}

func (l tagLayout) find(name string) (attrSpan, bool) {
	for _, span := range l.attrs {
		if span.name == name {
			return span, true
		}
	}

	return attrSpan{}, false
}

// separator returns the whitespace a new attribute should be preceded by,
// copied from the last existing attribute so multi-line tags stay aligned.
func (l tagLayout) separator(tag string) string {
	if len(l.attrs) == 0 {
		return " "
	}

	last := l.attrs[len(l.attrs)-1]
	if sep := tag[last.lead:last.nameStart]; sep != "" {
		return sep
	}

	return " "
}

// scanStartTag finds the attribute spans of a start tag such as
// `<activity android:name=".Main" android:exported="true">`.
func scanStartTag(tag string) (tagLayout, error) {
	if len(tag) < 2 || tag[0] != '<' {
		return tagLayout{}, fmt.Errorf("not a start tag: %q", tag)
	}

	i := 1
	for i < len(tag) && !isSpace(tag[i]) && tag[i] != '/' && tag[i] != '>' {
		i++
	}

	var layout tagLayout

	for {
		lead := i
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}

		if i >= len(tag) {
			return tagLayout{}, fmt.Errorf("unterminated start tag %q", tag)
		}

		if tag[i] == '/' || tag[i] == '>' {
			layout.close = lead
			return layout, nil
		}

		span := attrSpan{lead: lead, nameStart: i}
		for i < len(tag) && !isSpace(tag[i]) && tag[i] != '=' && tag[i] != '/' && tag[i] != '>' {
			i++
		}

		span.name = tag[span.nameStart:i]

		for i < len(tag) && isSpace(tag[i]) {
			i++
		}

		if i >= len(tag) || tag[i] != '=' {
			return tagLayout{}, fmt.Errorf("attribute %q in %q has no value", span.name, tag)
		}

		i++
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}

		if i >= len(tag) || (tag[i] != '"' && tag[i] != '\'') {
			return tagLayout{}, fmt.Errorf("attribute %q in %q is not quoted", span.name, tag)
		}

		span.quote = tag[i]
		i++
		span.valStart = i

		for i < len(tag) && tag[i] != span.quote {
			i++
		}

		if i >= len(tag) {
			return tagLayout{}, fmt.Errorf("attribute %q in %q is not terminated", span.name, tag)
		}

		span.valEnd = i
		i++
		span.end = i

		layout.attrs = append(layout.attrs, span)
	}
}
