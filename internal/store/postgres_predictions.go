package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/clever-tips/internal/database"
	"github.com/yourusername/clever-tips/internal/models"
)

var predictionColumns = []string{
	"id", "fixture_id", "home", "away", "league", "pick", "confidence", "odds",
	"all_odds", "probabilities", "scores", "strategy", "scoreline", "diversified",
	"kickoff", "created_at",
}

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) *PostgresPredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// predictionConflictColumns match the unique index on predictions
var predictionConflictColumns = []string{"fixture_id", "home", "away", "kickoff", "strategy"}

var upsertPredictionQuery = buildUpsertQuery()

func buildUpsertQuery() string {
	placeholders := make([]string, len(predictionColumns))
	updates := make([]string, 0, len(predictionColumns))
	for i, col := range predictionColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if col == "id" || slices.Contains(predictionConflictColumns, col) {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}

	return fmt.Sprintf(
		"INSERT INTO predictions (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s RETURNING id",
		strings.Join(predictionColumns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(predictionConflictColumns, ", "),
		strings.Join(updates, ", "),
	)
}

// SaveBatch upserts predictions in one transaction. A prediction for a fixture
// and strategy already stored replaces it and keeps the stored ID. An invalid
// prediction rejects the whole batch.
func (r *PostgresPredictionRepository) SaveBatch(ctx context.Context, predictions []*models.MatchPrediction) error {
	if err := validateBatch(predictions); err != nil {
		return err
	}

	saved := make([]*models.MatchPrediction, 0, len(predictions))
	for _, p := range predictions {
		if p != nil {
			ensureID(p)
			saved = append(saved, p)
		}
	}
	if len(saved) == 0 {
		return nil
	}

	rows := predictionRows(saved)
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, row := range rows {
			batch.Queue(upsertPredictionQuery, row...)
		}

		results := tx.SendBatch(ctx, batch)
		for _, p := range saved {
			if err := results.QueryRow().Scan(&p.ID); err != nil {
				_ = results.Close()
				return fmt.Errorf("failed to upsert prediction %s vs %s: %w", p.Home, p.Away, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to upsert predictions: %w", err)
		}
		return nil
	})
}

// GetByDate retrieves predictions kicking off on day
func (r *PostgresPredictionRepository) GetByDate(ctx context.Context, day time.Time) ([]*models.MatchPrediction, error) {
	query := `
		SELECT id, fixture_id, home, away, league, pick, confidence, odds,
		       all_odds, probabilities, scores, strategy, scoreline, diversified,
		       kickoff, created_at
		FROM predictions
		WHERE kickoff >= $1 AND kickoff < $2
		ORDER BY kickoff, home
	`

	start, end := dayBounds(day)
	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	predictions := make([]*models.MatchPrediction, 0)
	for rows.Next() {
		p := &models.MatchPrediction{}
		var pick string
		if err := rows.Scan(
			&p.ID, &p.FixtureID, &p.Home, &p.Away, &p.League, &pick, &p.Confidence, &p.Odds,
			&p.AllOdds, &p.Probabilities, &p.Scores, &p.Strategy, &p.Scoreline, &p.Diversified,
			&p.Kickoff, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		p.Pick = models.Outcome(pick)
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return predictions, nil
}

func predictionRows(predictions []*models.MatchPrediction) [][]interface{} {
	rows := make([][]interface{}, 0, len(predictions))
	for _, p := range predictions {
		if p == nil {
			continue
		}
		rows = append(rows, []interface{}{
			p.ID, p.FixtureID, p.Home, p.Away, p.League, string(p.Pick), p.Confidence, p.Odds,
			p.AllOdds, p.Probabilities, p.Scores, p.Strategy, p.Scoreline, p.Diversified,
			p.Kickoff, p.CreatedAt,
		})
	}
	return rows
}
