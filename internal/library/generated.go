package library

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/examprep/cbt/internal/store"
)

// KindNovelAnalysis tags generated novel analyses.
const KindNovelAnalysis = "novel-analysis"

// Analysis is an exam-oriented study guide for a novel.
type Analysis struct {
	Summary         string          `json:"summary"`
	Themes          []string        `json:"themes"`
	Characters      []CharacterNote `json:"characters"`
	LiteraryDevices []string        `json:"literary_devices,omitempty"`
	LikelyQuestions []string        `json:"likely_questions,omitempty"`
}

type CharacterNote struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type generated struct {
	Kind      string          `json:"kind"`
	Ref       string          `json:"ref"`
	CreatedAt int64           `json:"created_at"`
	Content   json.RawMessage `json:"content"`
}

func analysisKey(novelID string) string {
	return KindNovelAnalysis + "-" + novelID
}

// SaveAnalysis stores a for the novel.
func (l *Library) SaveAnalysis(ctx context.Context, novelID string, a Analysis) error {
	content, err := json.Marshal(a)
	if err != nil {
		return err
	}
	doc := generated{
		Kind:      KindNovelAnalysis,
		Ref:       novelID,
		CreatedAt: time.Now().UnixMilli(),
		Content:   content,
	}
	if err := l.store.Put(ctx, store.GeneratedContent, analysisKey(novelID), doc); err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

// Analysis returns the stored analysis for the novel, or nil if none.
func (l *Library) Analysis(ctx context.Context, novelID string) (*Analysis, error) {
	rec, err := l.store.Get(ctx, store.GeneratedContent, analysisKey(novelID))
	if err != nil || rec == nil {
		return nil, err
	}
	var doc generated
	if err := rec.Decode(&doc); err != nil {
		return nil, err
	}
	var a Analysis
	if err := json.Unmarshal(doc.Content, &a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &a, nil
}

// Analyses counts stored analyses.
func (l *Library) Analyses(ctx context.Context) (int, error) {
	recs, err := l.store.GetAllByIndex(ctx, store.GeneratedContent, "kind", KindNovelAnalysis)
	return len(recs), err
}
