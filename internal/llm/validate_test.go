package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

var explanationSchema = &Schema{
	Name: "test-explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer":      map[string]any{"type": "string", "enum": []any{"a", "b", "c", "d", "e"}},
			"explanation": map[string]any{"type": "string", "minLength": 1},
			"marks":       map[string]any{"type": "integer", "minimum": 0},
			"steps": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"answer", "explanation"},
	},
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"complete", `{"answer":"c","explanation":"Ohm's law gives 2A.","marks":1,"steps":["V=IR","I=6/3"]}`, true},
		{"optional fields omitted", `{"answer":"a","explanation":"By definition."}`, true},
		{"missing explanation", `{"answer":"a"}`, false},
		{"answer outside options", `{"answer":"f","explanation":"x"}`, false},
		{"negative marks", `{"answer":"b","explanation":"x","marks":-1}`, false},
		{"steps not strings", `{"answer":"b","explanation":"x","steps":[1,2]}`, false},
		{"malformed", `{"answer":`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(explanationSchema, json.RawMessage(tt.raw))
			if tt.valid {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected *ErrInvalidResponse, got %T (%v)", err, err)
			}
			if string(inv.Content) != tt.raw {
				t.Errorf("error should carry the raw reply, got %q", inv.Content)
			}
		})
	}
}

func TestValidateJSON_NilSchemaAcceptsAnything(t *testing.T) {
	if err := ValidateJSON(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestValidateJSON_CompilesOnce(t *testing.T) {
	for range 3 {
		if err := ValidateJSON(explanationSchema, json.RawMessage(`{"answer":"d","explanation":"ok"}`)); err != nil {
			t.Fatal(err)
		}
	}
	if _, ok := compiled.Load(explanationSchema.Name); !ok {
		t.Error("schema was not cached")
	}
}
