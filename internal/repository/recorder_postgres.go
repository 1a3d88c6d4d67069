package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"CollegeROI/internal/domain/models"
	domrepo "CollegeROI/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecorder stores predictions in Postgres.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

var (
	_ domrepo.PredictionRecorder = (*PostgresRecorder)(nil)
	_ domrepo.PredictionReader   = (*PostgresRecorder)(nil)
)

// NewPostgresRecorder connects using a postgres:// URL.
func NewPostgresRecorder(ctx context.Context, url string, maxConns int32) (*PostgresRecorder, error) {
	if url == "" {
		return nil, fmt.Errorf("postgres url is required")
	}
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PostgresRecorder{pool: pool}, nil
}

func (r *PostgresRecorder) Name() string { return "postgres" }

func (r *PostgresRecorder) Init(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS roi_predictions (
			id                  UUID PRIMARY KEY,
			created_at          TIMESTAMPTZ NOT NULL,
			degree_type         TEXT,
			major_field         TEXT,
			control_type        TEXT,
			state               TEXT,
			institution_name    TEXT,
			predicted_income    DOUBLE PRECISION,
			range_low           DOUBLE PRECISION,
			range_high          DOUBLE PRECISION,
			rmse                DOUBLE PRECISION,
			r_squared           DOUBLE PRECISION,
			annual_cost         DOUBLE PRECISION,
			total_loan_amount   DOUBLE PRECISION,
			monthly_payment     DOUBLE PRECISION,
			total_interest_paid DOUBLE PRECISION,
			roi_percentage      DOUBLE PRECISION,
			years_to_break_even DOUBLE PRECISION,
			cost_known          BOOLEAN,
			degree_recognized   BOOLEAN
		);
		CREATE INDEX IF NOT EXISTS idx_roi_predictions_created ON roi_predictions(created_at DESC);`)
	if err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) Record(ctx context.Context, rec models.PredictionRecord) error {
	args := flatten(rec).args()
	q := `INSERT INTO roi_predictions (` + predictionColumns + `) VALUES (` + dollarPlaceholders(len(args)) + `)
		ON CONFLICT (id) DO NOTHING`
	if _, err := r.pool.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("postgres insert: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) Recent(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+predictionColumns+` FROM roi_predictions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres query: %w", err)
	}
	defer rows.Close()

	var out []models.PredictionRecord
	for rows.Next() {
		var row predictionRow
		if err := rows.Scan(
			&row.ID, &row.CreatedAt,
			&row.DegreeType, &row.MajorField, &row.ControlType, &row.State, &row.Institution,
			&row.PredictedIncome, &row.RangeLow, &row.RangeHigh, &row.RMSE, &row.RSquared,
			&row.AnnualCost, &row.TotalLoan, &row.MonthlyPayment, &row.TotalInterest,
			&row.ROIPercentage, &row.BreakEvenYears,
			&row.CostKnown, &row.DegreeRecognized,
		); err != nil {
			return nil, fmt.Errorf("postgres scan: %w", err)
		}
		out = append(out, row.record())
	}
	return out, rows.Err()
}

func (r *PostgresRecorder) Close() error {
	r.pool.Close()
	return nil
}

func dollarPlaceholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(i+1)
	}
	return strings.Join(parts, ",")
}
