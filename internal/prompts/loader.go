// Package prompts holds the writing-assistant prompt templates. They are
// embedded from editor.json and filled with {{.Name}} placeholders.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Key names one prompt in editor.json
type Key string

const (
	GenerateBullets     Key = "generate-bullets"
	GenerateSummary     Key = "generate-summary"
	ExtractKeywords     Key = "extract-keywords"
	GenerateCoverLetter Key = "generate-cover-letter"
)

// Vars fills a prompt's placeholders
type Vars map[string]string

//go:embed editor.json
var editorJSON []byte

var placeholder = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

var (
	loadOnce sync.Once
	loaded   map[Key]string
	loadErr  error
)

func load() (map[Key]string, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parse(editorJSON)
	})
	return loaded, loadErr
}

func parse(data []byte) (map[Key]string, error) {
	var raw map[Key]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file: %w", err)
	}
	return raw, nil
}

// Get returns the unfilled template for key.
func Get(key Key) (string, error) {
	all, err := load()
	if err != nil {
		return "", err
	}
	tmpl, ok := all[key]
	if !ok {
		return "", fmt.Errorf("prompt %q not found", key)
	}
	return tmpl, nil
}

// Render fills every placeholder of the prompt for key. A placeholder with no
// value in vars is an error, so a renamed field cannot reach the model as
// literal template text.
func Render(key Key, vars Vars) (string, error) {
	tmpl, err := Get(key)
	if err != nil {
		return "", err
	}
	return Fill(tmpl, vars)
}

// Fill substitutes vars into tmpl and reports placeholders left unfilled.
func Fill(tmpl string, vars Vars) (string, error) {
	var missing []string
	out := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		value, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt placeholders without values: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// Keys lists the available prompts, sorted.
func Keys() ([]Key, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}
	keys := make([]Key, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}
