package strategy

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yourusername/clever-tips/internal/models"
)

// BaseStrategy provides shared validation and record stamping for strategies
type BaseStrategy struct {
	validate *validator.Validate
	now      func() time.Time
}

func newBaseStrategy() BaseStrategy {
	return BaseStrategy{
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ValidateInput checks the fixture and both forms before scoring
func (b *BaseStrategy) ValidateInput(input Input) error {
	if strings.TrimSpace(input.Fixture.Home) == "" || strings.TrimSpace(input.Fixture.Away) == "" {
		return fmt.Errorf("%w: home and away teams are required", models.ErrInvalidFixture)
	}
	sides := []struct {
		name string
		form models.TeamForm
	}{
		{"home", input.HomeForm},
		{"away", input.AwayForm},
	}
	for _, side := range sides {
		if err := b.validate.Struct(side.form); err != nil {
			return fmt.Errorf("%w: %s form: %v", models.ErrInvalidForm, side.name, err)
		}
		if err := side.form.Validate(); err != nil {
			return fmt.Errorf("%s form: %w", side.name, err)
		}
	}
	return nil
}

// Stamp fills identity fields on a freshly built prediction
func (b *BaseStrategy) Stamp(pred *models.MatchPrediction, input Input, strategyName string) {
	pred.ID = uuid.New()
	pred.ApplyFixture(input.Fixture)
	pred.Strategy = strategyName
	pred.CreatedAt = b.now()
}
