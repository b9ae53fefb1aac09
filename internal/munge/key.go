// Package munge implements munge construction and the reference-counted
// munge list that decides which edits must be physically written to, or
// removed from, a project's target files.
package munge

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"sort"

	m "plugdroid.dev/pkg/plugdroid/internal/model"
	"plugdroid.dev/pkg/plugdroid/internal/xmldoc"
)

// EditKey is a stable structural hash of an edit. Two edits share a key
// exactly when they make the same change.
type EditKey string

// KeyOf hashes the canonical form of an edit. Fragments are canonicalised so
// attribute order and formatting do not produce distinct keys.
func KeyOf(edit m.Edit) (EditKey, error) {
	if err := edit.Validate(); err != nil {
		return "", err
	}

	h := sha256.New()
	writeField(h, string(edit.Kind))

	switch edit.Kind {
	case m.EditAddChild, m.EditRemoveChild:
		canon, err := xmldoc.Canonical(edit.XML)
		if err != nil {
			return "", fmt.Errorf("edit key: %w", err)
		}

		writeField(h, canon)
	case m.EditSetAttributes:
		attrs := append([]m.Attr(nil), edit.Attrs...)
		sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })

		for _, attr := range attrs {
			writeField(h, attr.Name)
			writeField(h, attr.Value)
		}
	}

	return EditKey(hex.EncodeToString(h.Sum(nil))), nil
}

// writeField length-prefixes each field so ("ab","c") and ("a","bc") differ.
func writeField(h hash.Hash, field string) {
	var size [8]byte

	binary.BigEndian.PutUint64(size[:], uint64(len(field)))
	_, _ = h.Write(size[:])
	_, _ = h.Write([]byte(field))
}
