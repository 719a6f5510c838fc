// Package publisher renders predictions and delivers them to output channels.
package publisher

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/clever-tips/internal/models"
)

// Publisher delivers a batch of finished predictions
type Publisher interface {
	Name() string
	Publish(ctx context.Context, predictions []*models.MatchPrediction) error
}

// MultiPublisher fans a batch out to several publishers. Every publisher is
// attempted; failures are joined.
type MultiPublisher struct {
	publishers []Publisher
}

// NewMultiPublisher creates a publisher over the given channels, skipping nils
func NewMultiPublisher(publishers ...Publisher) *MultiPublisher {
	m := &MultiPublisher{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

// Name returns the publisher name
func (m *MultiPublisher) Name() string {
	return "multi"
}

// Len returns the number of wrapped publishers
func (m *MultiPublisher) Len() int {
	return len(m.publishers)
}

// Publish hands predictions to every wrapped publisher
func (m *MultiPublisher) Publish(ctx context.Context, predictions []*models.MatchPrediction) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, predictions); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}
