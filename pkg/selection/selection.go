// Package selection filters candidate lists for single-choice pickers such as
// the guest and promo dialogs.
package selection

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var ErrUnknownCandidate = errors.New("unknown candidate")

type Candidate interface {
	CandidateID() string
	CandidateName() string
	CandidateSecondary() string
}

// Filter keeps candidates whose name or secondary field contains query,
// ignoring case. A blank query returns every candidate.
func Filter[T Candidate](candidates []T, query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if q == "" ||
			strings.Contains(strings.ToLower(c.CandidateName()), q) ||
			strings.Contains(strings.ToLower(c.CandidateSecondary()), q) {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the candidate with the given id.
func Find[T Candidate](candidates []T, id string) (T, bool) {
	for _, c := range candidates {
		if c.CandidateID() == id {
			return c, true
		}
	}
	var zero T
	return zero, false
}

// Dialog is a single-choice picker. Selecting a candidate runs onSelect once
// and clears the query; R is whatever onSelect produces.
type Dialog[T Candidate, R any] struct {
	mu         sync.Mutex
	candidates []T
	query      string
	onSelect   func(context.Context, T) (R, error)
}

func NewDialog[T Candidate, R any](onSelect func(context.Context, T) (R, error)) *Dialog[T, R] {
	return &Dialog[T, R]{onSelect: onSelect}
}

// SetCandidates replaces the candidate set and keeps the query.
func (d *Dialog[T, R]) SetCandidates(candidates []T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.candidates = append([]T(nil), candidates...)
}

func (d *Dialog[T, R]) SetQuery(q string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.query = q
}

func (d *Dialog[T, R]) Query() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.query
}

func (d *Dialog[T, R]) Visible() []T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Filter(d.candidates, d.query)
}

func (d *Dialog[T, R]) Select(ctx context.Context, c T) (R, error) {
	d.mu.Lock()
	d.query = ""
	onSelect := d.onSelect
	d.mu.Unlock()

	if onSelect == nil {
		var zero R
		return zero, nil
	}
	return onSelect(ctx, c)
}

// SelectID selects the candidate with id, or fails with ErrUnknownCandidate
// leaving the query as it was.
func (d *Dialog[T, R]) SelectID(ctx context.Context, id string) (R, error) {
	d.mu.Lock()
	c, ok := Find(d.candidates, id)
	d.mu.Unlock()

	if !ok {
		var zero R
		return zero, ErrUnknownCandidate
	}
	return d.Select(ctx, c)
}
