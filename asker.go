package docqa

import "context"

// InsufficientInformation is the fixed answer given when the corpus holds
// nothing relevant to a question.
const InsufficientInformation = "I don't have enough information in the provided documents."

// Answer is the response to a question. TopAnchorID and Score are nil when
// no section could be selected.
type Answer struct {
	Answer      string   `json:"answer"`
	TopAnchorID *string  `json:"top_anchor_id"`
	Score       *float64 `json:"score"`
}

// NoAnswer returns the answer used when retrieval finds nothing.
func NoAnswer() *Answer {
	return &Answer{Answer: InsufficientInformation}
}

// Asker answers natural language questions over the ingested corpus.
type Asker interface {
	// Ask answers a question. Returns EINVALID for an empty question and
	// ENOTFOUND if nothing has been ingested.
	Ask(ctx context.Context, question string) (*Answer, error)
}
