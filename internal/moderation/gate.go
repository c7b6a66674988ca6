// Package moderation implements the content admission gate: a pre-write
// classifier that diverts disallowed submissions to a quarantine sink instead
// of the primary store.
package moderation

import (
	"context"

	"campuslink/internal/models"

	goaway "github.com/TwiN/go-away"
)

// Classifier flags a single text field. It must be a pure function with no
// side effects or learned state.
type Classifier func(text string) bool

// Sink receives the verbatim payload of every rejected submission.
type Sink interface {
	Insert(ctx context.Context, payload any) error
}

// Default returns the stock profanity classifier.
func Default() Classifier {
	return goaway.IsProfane
}

// Gate classifies submitted text fields and routes rejected payloads to the
// quarantine sink. It holds no state across calls.
type Gate struct {
	classify   Classifier
	quarantine Sink
}

// NewGate wires a classifier to a quarantine sink. Both are injected so the
// gate's policy can be tested without a real store.
func NewGate(classify Classifier, quarantine Sink) *Gate {
	return &Gate{classify: classify, quarantine: quarantine}
}

// Admit checks each text field independently. If any field is flagged the
// full original payload is appended to the quarantine sink and a
// CONTENT_REJECTED error is returned; the caller must not write the payload
// to the primary store. On acceptance the sink is untouched and Admit
// returns nil.
func (g *Gate) Admit(ctx context.Context, payload any, fields ...string) error {
	for _, field := range fields {
		if !g.classify(field) {
			continue
		}
		if err := g.quarantine.Insert(ctx, payload); err != nil {
			return models.NewInternalError(err)
		}
		return models.NewContentRejectedError()
	}
	return nil
}
