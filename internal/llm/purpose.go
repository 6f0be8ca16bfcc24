package llm

import "context"

// Purpose labels a request in the request log.
type Purpose string

const (
	PurposeChat       Purpose = "chat"
	PurposeImage      Purpose = "image"
	PurposeFlashcards Purpose = "flashcards"
	PurposeNovel      Purpose = "novel"
	PurposeOther      Purpose = "other"
)

type purposeKey struct{}

// WithPurpose tags ctx so logged requests can be grouped by what asked for
// them.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose on ctx, or PurposeOther.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeOther
}

// purposeLimits bounds the token budget and temperature for a purpose.
// Zero fields leave the request's value alone.
type purposeLimits struct {
	minTokens int
	minTemp   float64
	maxTemp   float64
}

var limitsByPurpose = map[Purpose]purposeLimits{
	// Reading a photographed question should be literal.
	PurposeImage: {minTokens: 1024, maxTemp: 0.2},
	// A deck of cards or a chapter-by-chapter summary runs long, and
	// repeated decks should not come back identical.
	PurposeFlashcards: {minTokens: 2048, minTemp: 0.5},
	PurposeNovel:      {minTokens: 4096, minTemp: 0.3},
}

// shapeRequest applies the limits for the purpose on ctx to req.
func shapeRequest(ctx context.Context, req Request) Request {
	l, ok := limitsByPurpose[PurposeFrom(ctx)]
	if !ok {
		return req
	}
	if req.MaxTokens < l.minTokens {
		req.MaxTokens = l.minTokens
	}
	if l.minTemp > 0 && req.Temperature < l.minTemp {
		req.Temperature = l.minTemp
	}
	if l.maxTemp > 0 && req.Temperature > l.maxTemp {
		req.Temperature = l.maxTemp
	}
	return req
}
