package xmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"attribute order", `<a x="1" y="2"/>`, `<a y="2" x="1"/>`, true},
		{"empty element styles", `<a></a>`, `<a/>`, true},
		{"whitespace between children", "<a>\n  <b/>\n</a>", `<a><b/></a>`, true},
		{"text is significant", `<string name="n">Hi</string>`, `<string name="n">Bye</string>`, false},
		{"text whitespace collapses", "<s>hello   world</s>", "<s>\n hello world\n</s>", true},
		{"different values", `<a x="1"/>`, `<a x="2"/>`, false},
		{"different names", `<a/>`, `<b/>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ca, err := Canonical(tt.a)
			require.NoError(t, err)

			cb, err := Canonical(tt.b)
			require.NoError(t, err)

			if tt.same {
				assert.Equal(t, ca, cb)
			} else {
				assert.NotEqual(t, ca, cb)
			}
		})
	}
}

func TestSplitFragments(t *testing.T) {
	snippet := `
        <uses-permission android:name="A" />
        <!-- camera -->
        <uses-feature android:name="B">
            <extra/>
        </uses-feature>
`

	parts, err := SplitFragments(snippet)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, `<uses-permission android:name="A" />`, parts[0])
	assert.Equal(t, "<uses-feature android:name=\"B\">\n    <extra/>\n</uses-feature>", parts[1])
}

func TestSplitFragments_Errors(t *testing.T) {
	for _, snippet := range []string{"", "just text", "<a/> stray <b/>", "<a>"} {
		_, err := SplitFragments(snippet)
		assert.Error(t, err, snippet)
	}
}
