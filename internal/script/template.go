// Package script parses reply templates and renders them from user choices.
//
// A template is plain text with two kinds of placeholders: {[a][b][c]}
// offers a choice between a, b and c, and () asks for free text.
package script

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\{\[((?:[^\[\]]+)(?:\]\[.*?)*?)\]\}|\(\)`)

// PartKind classifies a template part.
type PartKind string

const (
	PartText   PartKind = "text"
	PartChoice PartKind = "choice"
	PartInput  PartKind = "input"
)

// Part is one segment of a parsed template.
type Part struct {
	Kind    PartKind `json:"kind"`
	Text    string   `json:"text,omitempty"`
	Options []string `json:"options,omitempty"`
}

// Template is a parsed script.
type Template struct {
	Parts []Part `json:"parts"`
}

// Parse splits raw into literal text and placeholders. Text that does not
// form a complete placeholder is kept literally.
func Parse(raw string) Template {
	var parts []Part
	last := 0
	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(raw, -1) {
		start, end := loc[0], loc[1]
		if start > last {
			parts = append(parts, Part{Kind: PartText, Text: raw[last:start]})
		}
		if loc[2] >= 0 {
			parts = append(parts, Part{
				Kind:    PartChoice,
				Options: strings.Split(raw[loc[2]:loc[3]], "]["),
			})
		} else {
			parts = append(parts, Part{Kind: PartInput})
		}
		last = end
	}
	if last < len(raw) {
		parts = append(parts, Part{Kind: PartText, Text: raw[last:]})
	}
	return Template{Parts: parts}
}

// Defaults returns the initial value of every part: the first option for
// choices and the empty string for inputs and text.
func (t Template) Defaults() []string {
	values := make([]string, len(t.Parts))
	for i, part := range t.Parts {
		if part.Kind == PartChoice && len(part.Options) > 0 {
			values[i] = part.Options[0]
		}
	}
	return values
}

// Placeholders counts the parts that take a value.
func (t Template) Placeholders() int {
	n := 0
	for _, part := range t.Parts {
		if part.Kind != PartText {
			n++
		}
	}
	return n
}

// Render concatenates literal text with the value at each placeholder's
// index. Missing values render as empty; values at text indexes are
// ignored. Choice values are not checked against the options.
func (t Template) Render(values map[int]string) string {
	var b strings.Builder
	for i, part := range t.Parts {
		if part.Kind == PartText {
			b.WriteString(part.Text)
			continue
		}
		b.WriteString(values[i])
	}
	return b.String()
}

// RenderDefaults renders with Defaults overridden by values.
func (t Template) RenderDefaults(values map[int]string) string {
	merged := make(map[int]string, len(t.Parts))
	for i, value := range t.Defaults() {
		merged[i] = value
	}
	for i, value := range values {
		merged[i] = value
	}
	return t.Render(merged)
}

// NameFromFilename derives a script name from an uploaded file name. Only
// .txt files are accepted.
func NameFromFilename(filename string) (string, error) {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if !strings.EqualFold(path.Ext(base), ".txt") {
		return "", fmt.Errorf("script %q must be a .txt file", filename)
	}
	name := strings.TrimSpace(base[:len(base)-len(".txt")])
	if name == "" {
		return "", fmt.Errorf("script %q has no name", filename)
	}
	return name, nil
}
