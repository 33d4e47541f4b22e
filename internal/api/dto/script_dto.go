package dto

import (
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/script"
	"github.com/spec-kit/ticket-dashboard/internal/view"
)

// ScriptResponse is one stored script.
type ScriptResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RawTemplate string    `json:"raw_template"`
	CreatedAt   time.Time `json:"created_at"`
}

// Script converts a script.
func Script(s domain.Script) ScriptResponse {
	return ScriptResponse{ID: s.ID, Name: s.Name, RawTemplate: s.RawTemplate, CreatedAt: s.CreatedAt}
}

// Scripts converts scripts.
func Scripts(scripts []domain.Script) []ScriptResponse {
	out := make([]ScriptResponse, 0, len(scripts))
	for _, s := range scripts {
		out = append(out, Script(s))
	}
	return out
}

// ScriptTemplateResponse is a parsed script with its default values keyed
// by part index.
type ScriptTemplateResponse struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Parts  []script.Part  `json:"parts"`
	Values map[int]string `json:"values"`
}

// ScriptTemplate converts a fill state.
func ScriptTemplate(fill view.ScriptFill) ScriptTemplateResponse {
	return ScriptTemplateResponse{
		ID:     fill.ScriptID,
		Name:   fill.Name,
		Parts:  fill.Template.Parts,
		Values: fill.Values,
	}
}

// RenderScriptRequest carries placeholder values keyed by part index.
type RenderScriptRequest struct {
	Values map[int]string `json:"values"`
}

// RenderScriptResponse is rendered text.
type RenderScriptResponse struct {
	Name string `json:"name"`
	Text string `json:"text"`
}
