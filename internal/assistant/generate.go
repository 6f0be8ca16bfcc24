package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/examprep/cbt/internal/flashcards"
	"github.com/examprep/cbt/internal/library"
	"github.com/examprep/cbt/internal/llm"
)

var flashcardSchema = &llm.Schema{
	Name: "flashcards",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"front": map[string]any{"type": "string", "minLength": 1},
				"back":  map[string]any{"type": "string", "minLength": 1},
			},
			"required": []any{"front", "back"},
		},
	},
}

var novelAnalysisSchema = &llm.Schema{
	Name: "novel-analysis",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string", "minLength": 1},
			"themes": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"characters": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":        map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
					},
					"required": []any{"name"},
				},
			},
			"literary_devices": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"likely_questions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"summary", "themes", "characters"},
	},
}

// jsonFragment cuts the outermost open...close span out of free-form text.
func jsonFragment(text string, open, close byte) (json.RawMessage, bool) {
	i := strings.IndexByte(text, open)
	j := strings.LastIndexByte(text, close)
	if i < 0 || j <= i {
		return nil, false
	}
	frag := json.RawMessage(text[i : j+1])
	if !json.Valid(frag) {
		return nil, false
	}
	return frag, true
}

// GenerateFlashcards asks for count cards on a topic and stores them in the
// deck. Any failure, including an unusable reply, yields no cards.
func (s *Service) GenerateFlashcards(ctx context.Context, subject, topic string, count int) []flashcards.Card {
	if count <= 0 {
		count = 10
	}
	prompt := fmt.Sprintf(`Flashcards on "%s" (JAMB %s): create %d cards.
Reply with only a JSON array of objects, each with a "front" (a short question or term) and a "back" (a concise answer), for example:
[{"front": "...", "back": "..."}]`, topic, subject, count)

	text, err := s.askText(llm.WithPurpose(ctx, llm.PurposeFlashcards), prompt, subject)
	if err != nil {
		s.log.Warn("generate flashcards", "subject", subject, "topic", topic, "err", err)
		return []flashcards.Card{}
	}

	frag, ok := jsonFragment(text, '[', ']')
	if !ok {
		s.log.Debug("no flashcard array in reply", "subject", subject, "topic", topic)
		return []flashcards.Card{}
	}
	if err := llm.ValidateJSON(flashcardSchema, frag); err != nil {
		s.log.Debug("flashcard reply rejected", "err", err)
		return []flashcards.Card{}
	}
	var raw []struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	}
	if err := json.Unmarshal(frag, &raw); err != nil {
		return []flashcards.Card{}
	}
	if len(raw) > count {
		raw = raw[:count]
	}

	cards := make([]flashcards.Card, 0, len(raw))
	for _, r := range raw {
		c := flashcards.Card{Subject: subject, Topic: topic, Front: r.Front, Back: r.Back}
		if s.deck != nil {
			saved, err := s.deck.Save(ctx, c)
			if err != nil {
				s.log.Warn("save generated flashcard", "err", err)
			} else {
				c = saved
			}
		}
		cards = append(cards, c)
	}
	return cards
}

// GenerateNovelAnalysis returns a study guide for the novel, generating and
// storing one when none is stored yet. Any failure yields nil.
func (s *Service) GenerateNovelAnalysis(ctx context.Context, n library.Novel) *library.Analysis {
	if s.library != nil {
		a, err := s.library.Analysis(ctx, n.ID)
		if err != nil {
			s.log.Warn("read stored analysis", "novel", n.ID, "err", err)
		} else if a != nil {
			return a
		}
	}

	prompt := fmt.Sprintf(`Analyse the novel "%s" by %s for a student preparing for the JAMB Literature in English exam.
Reply with only a JSON object with these fields:
"summary" (string), "themes" (array of strings), "characters" (array of {"name", "description"}),
"literary_devices" (array of strings), "likely_questions" (array of strings).

Text:
%s`, n.Title, n.Author, n.Excerpt(6000))

	text, err := s.askText(llm.WithPurpose(ctx, llm.PurposeNovel), prompt, "literature")
	if err != nil {
		s.log.Warn("generate novel analysis", "novel", n.ID, "err", err)
		return nil
	}

	frag, ok := jsonFragment(text, '{', '}')
	if !ok {
		s.log.Debug("no analysis object in reply", "novel", n.ID)
		return nil
	}
	if err := llm.ValidateJSON(novelAnalysisSchema, frag); err != nil {
		s.log.Debug("analysis reply rejected", "err", err)
		return nil
	}
	var a library.Analysis
	if err := json.Unmarshal(frag, &a); err != nil {
		return nil
	}

	if s.library != nil && n.ID != "" {
		if err := s.library.SaveAnalysis(ctx, n.ID, a); err != nil {
			s.log.Warn("save novel analysis", "novel", n.ID, "err", err)
		}
	}
	return &a
}
