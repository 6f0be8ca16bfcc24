// Package review steps through due flashcards and records how each went.
package review

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/examprep/cbt/internal/flashcards"
	"github.com/examprep/cbt/internal/ui/theme"
)

// Recorder stores the outcome of a card review.
type Recorder interface {
	RecordReview(ctx context.Context, id string, correct bool) (flashcards.Card, error)
}

// Model shows each card's front, reveals the back, and asks whether the
// candidate knew it.
type Model struct {
	ctx   context.Context
	deck  Recorder
	cards []flashcards.Card

	i        int
	revealed bool
	reviewed int
	known    int
	err      error
}

var _ tea.Model = (*Model)(nil)

// New creates a review of cards.
func New(ctx context.Context, deck Recorder, cards []flashcards.Card) *Model {
	return &Model{ctx: ctx, deck: deck, cards: cards}
}

// Reviewed returns how many cards were answered.
func (m *Model) Reviewed() int { return m.reviewed }

// Known returns how many answered cards were known.
func (m *Model) Known() int { return m.known }

// Err returns the storage error that stopped the review, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) Init() tea.Cmd {
	if len(m.cards) == 0 {
		return tea.Quit
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || m.i >= len(m.cards) {
		return m, nil
	}

	switch key := strings.ToLower(kmsg.String()); {
	case key == "ctrl+c" || key == "esc" || key == "q":
		return m, tea.Quit
	case !m.revealed:
		if key == "enter" || key == "space" || key == " " {
			m.revealed = true
		}
	case key == "y" || key == "n":
		return m.record(key == "y")
	}
	return m, nil
}

func (m *Model) record(correct bool) (tea.Model, tea.Cmd) {
	if _, err := m.deck.RecordReview(m.ctx, m.cards[m.i].ID, correct); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.reviewed++
	if correct {
		m.known++
	}
	m.i++
	m.revealed = false
	if m.i == len(m.cards) {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) View() tea.View {
	v := tea.NewView("")
	if m.i >= len(m.cards) || m.err != nil {
		return v
	}
	c := m.cards[m.i]

	var b strings.Builder
	header := fmt.Sprintf("Card %d of %d", m.i+1, len(m.cards))
	if c.Topic != "" {
		header += "  ·  " + c.Topic
	}
	b.WriteString(theme.Subtitle.Render(header) + "\n")
	b.WriteString(theme.Card.Render(c.Front) + "\n")
	if m.revealed {
		b.WriteString(theme.Card.BorderForeground(theme.Current.Secondary).Render(c.Back) + "\n")
		b.WriteString(theme.Hint.Render("did you know it?  y yes  n no  q stop"))
	} else {
		b.WriteString(theme.Hint.Render("enter reveal  q stop"))
	}
	v.SetContent(b.String())
	return v
}
