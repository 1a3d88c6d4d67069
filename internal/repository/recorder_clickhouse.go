package repository

import (
	"context"
	"database/sql"
	"fmt"

	"CollegeROI/internal/domain/models"
	domrepo "CollegeROI/internal/domain/repository"
	pkgch "CollegeROI/pkg/clickhouse"
)

// ClickHouseRecorder appends predictions to a MergeTree table.
type ClickHouseRecorder struct {
	client *pkgch.Client
	db     *sql.DB
	table  string
}

var _ domrepo.PredictionRecorder = (*ClickHouseRecorder)(nil)

func NewClickHouseRecorder(client *pkgch.Client, table string) *ClickHouseRecorder {
	return &ClickHouseRecorder{client: client, db: client.DB(), table: table}
}

func (r *ClickHouseRecorder) Name() string { return "clickhouse" }

func (r *ClickHouseRecorder) Init(ctx context.Context) error {
	if err := r.client.Health(ctx); err != nil {
		return fmt.Errorf("clickhouse health: %w", err)
	}
	return r.client.InitSchema(ctx, []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id                  UUID,
			created_at          DateTime64(3, 'UTC'),
			degree_type         LowCardinality(String),
			major_field         String,
			control_type        LowCardinality(String),
			state               LowCardinality(String),
			institution_name    String,
			predicted_income    Float64,
			range_low           Float64,
			range_high          Float64,
			rmse                Float64,
			r_squared           Float64,
			annual_cost         Float64,
			total_loan_amount   Float64,
			monthly_payment     Float64,
			total_interest_paid Float64,
			roi_percentage      Float64,
			years_to_break_even Nullable(Float64),
			cost_known          Bool,
			degree_recognized   Bool
		) ENGINE = MergeTree
		PARTITION BY toYYYYMM(created_at)
		ORDER BY (degree_type, created_at)`, r.table),
	})
}

func (r *ClickHouseRecorder) Record(ctx context.Context, rec models.PredictionRecord) error {
	args := flatten(rec).args()
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", r.table, predictionColumns, placeholders(len(args)))
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("clickhouse insert: %w", err)
	}
	return nil
}

// Close leaves the pool open; the client owns it.
func (r *ClickHouseRecorder) Close() error {
	return nil
}
