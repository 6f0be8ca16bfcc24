package library

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/examprep/cbt/internal/flashcards"
)

const summaryCardLimit = 500

// StudyCards turns a novel's notes into literature flashcards: one per
// character, theme and literary device, plus an overview card. Ids are
// derived from the novel so rebuilding the set yields the same cards.
func StudyCards(n Novel) []flashcards.Card {
	topic := func(section string) string { return n.Title + " - " + section }
	card := func(id, section, front, back string) flashcards.Card {
		return flashcards.Card{
			ID:      "novel-" + n.ID + "-" + id,
			Subject: "literature",
			Topic:   topic(section),
			Front:   front,
			Back:    back,
		}
	}

	cards := make([]flashcards.Card, 0, len(n.Characters)+len(n.Themes)+len(n.Devices)+1)
	for _, c := range n.Characters {
		back := c.Description
		if c.Role != "" {
			back = c.Role + "\n\n" + c.Description
		}
		cards = append(cards, card("char-"+Slug(c.Name), "Characters", "Who is "+c.Name+"?", back))
	}
	for i, t := range n.Themes {
		cards = append(cards, card("theme-"+strconv.Itoa(i), "Themes", "Explain the theme: "+t.Title, t.Description))
	}
	for i, d := range n.Devices {
		cards = append(cards, card("device-"+strconv.Itoa(i), "Literary Devices",
			fmt.Sprintf("Give examples of %s in %q", d.Name, n.Title), d.Examples))
	}
	if n.Summary != "" {
		summary := n.Summary
		if r := []rune(summary); len(r) > summaryCardLimit {
			summary = strings.TrimSpace(string(r[:summaryCardLimit])) + "..."
		}
		front := fmt.Sprintf("Summarize %q", n.Title)
		if n.Author != "" {
			front += " by " + n.Author
		}
		cards = append(cards, card("summary", "Overview", front, summary))
	}
	return cards
}
