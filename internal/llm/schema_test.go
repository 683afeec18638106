package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseSchema_Instructions(t *testing.T) {
	out := BulletOptionsSchema().Instructions()

	assert.Contains(t, out, `"options": []string (required)`)
	assert.Contains(t, out, "// Rewritten bullet candidates")
	assert.Contains(t, out, "no markdown")
}

func TestResponseSchema_DefaultTypeAndCommas(t *testing.T) {
	out := ResponseSchema{Fields: []SchemaField{{Name: "a"}, {Name: "b", Type: "number"}}}.Instructions()

	assert.Contains(t, out, "\"a\": string,\n")
	assert.Contains(t, out, "\"b\": number\n")
}

func TestBuildPrompt(t *testing.T) {
	out := BuildPrompt("  Write a summary.\n", SummarySchema())

	assert.True(t, strings.HasPrefix(out, "Write a summary.\n\nReturn ONLY valid JSON"))
	assert.Contains(t, out, `"summary": string (required)`)
}

func TestKeywordSetSchema(t *testing.T) {
	schema := KeywordSetSchema()
	names := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"matching", "missing", "priority"}, names)
}
