package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Led a team of  5", "Led a team of  5"},
		{"inline tags", "<b>Led</b> a <i>team</i>", "Led a team"},
		{"entities", "R&amp;D &lt;fast&gt;", "R&D <fast>"},
		{"block elements separated", "<p>First</p><p>Second</p>", "First Second"},
		{"line breaks", "one<br>two<br/>three", "one two three"},
		{"list items", "<ul><li>Go</li><li>Rust</li></ul>", "Go Rust"},
		{"scripts dropped", "<script>alert(1)</script>Safe", "Safe"},
		{"attributes", `<span class="kw" data-x="1">Kafka</span> streams`, "Kafka streams"},
	}

	sanitizers := map[string]Sanitizer{
		"html":  HTMLSanitizer{},
		"regex": RegexSanitizer{},
	}

	for sname, s := range sanitizers {
		for _, tt := range tests {
			t.Run(sname+"/"+tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, s.Clean(tt.in))
			})
		}
	}
}

func TestNew(t *testing.T) {
	s, err := New(ModeAuto)
	require.NoError(t, err)
	assert.IsType(t, HTMLSanitizer{}, s)

	s, err = New("")
	require.NoError(t, err)
	assert.IsType(t, HTMLSanitizer{}, s)

	s, err = New("REGEX")
	require.NoError(t, err)
	assert.IsType(t, RegexSanitizer{}, s)

	_, err = New("dom")
	assert.Error(t, err)
}
