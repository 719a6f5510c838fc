package strategy

import (
	"fmt"

	"github.com/yourusername/clever-tips/internal/models"
	"github.com/yourusername/clever-tips/internal/prediction"
)

// Options tune the strategies built by Resolve
type Options struct {
	// BigClubs overrides the default reputation set when non-empty
	BigClubs []string
}

// Names lists the registered strategies
func Names() []string {
	return []string{FullStrategyName, SimpleStrategyName}
}

// Resolve builds a strategy by name
func Resolve(name string, opts Options) (Strategy, error) {
	switch name {
	case FullStrategyName, "":
		var clubs prediction.ClubSet
		if len(opts.BigClubs) > 0 {
			clubs = prediction.NewClubSet(opts.BigClubs...)
		}
		return NewFullStrategy(clubs), nil
	case SimpleStrategyName:
		return NewSimpleStrategy(), nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownStrategy, name)
	}
}
