package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"CollegeROI/internal/domain/models"
	domrepo "CollegeROI/internal/domain/repository"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder keeps the prediction log in a local SQLite file.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

var (
	_ domrepo.PredictionRecorder = (*SQLiteRecorder)(nil)
	_ domrepo.PredictionReader   = (*SQLiteRecorder)(nil)
)

// NewSQLiteRecorder opens or creates the database at path in WAL mode.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &SQLiteRecorder{db: db}, nil
}

func (r *SQLiteRecorder) Name() string { return "sqlite" }

// Init creates the table and index if missing.
func (r *SQLiteRecorder) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS roi_predictions (
			id                  TEXT PRIMARY KEY,
			created_at          INTEGER NOT NULL,
			degree_type         TEXT,
			major_field         TEXT,
			control_type        TEXT,
			state               TEXT,
			institution_name    TEXT,
			predicted_income    REAL,
			range_low           REAL,
			range_high          REAL,
			rmse                REAL,
			r_squared           REAL,
			annual_cost         REAL,
			total_loan_amount   REAL,
			monthly_payment     REAL,
			total_interest_paid REAL,
			roi_percentage      REAL,
			years_to_break_even REAL,
			cost_known          INTEGER,
			degree_recognized   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_roi_predictions_created ON roi_predictions(created_at)`,
	}
	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("sqlite migrate: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Record(ctx context.Context, rec models.PredictionRecord) error {
	row := flatten(rec)
	args := row.args()
	args[1] = row.CreatedAt.UnixMilli()

	r.mu.Lock()
	defer r.mu.Unlock()

	q := `INSERT INTO roi_predictions (` + predictionColumns + `) VALUES (` + placeholders(len(args)) + `)`
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("sqlite insert: %w", err)
	}
	return nil
}

// Recent returns the newest records first.
func (r *SQLiteRecorder) Recent(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+predictionColumns+` FROM roi_predictions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite query: %w", err)
	}
	defer rows.Close()

	var out []models.PredictionRecord
	for rows.Next() {
		var (
			row       predictionRow
			createdMs int64
			breakEven sql.NullFloat64
		)
		if err := rows.Scan(
			&row.ID, &createdMs,
			&row.DegreeType, &row.MajorField, &row.ControlType, &row.State, &row.Institution,
			&row.PredictedIncome, &row.RangeLow, &row.RangeHigh, &row.RMSE, &row.RSquared,
			&row.AnnualCost, &row.TotalLoan, &row.MonthlyPayment, &row.TotalInterest,
			&row.ROIPercentage, &breakEven,
			&row.CostKnown, &row.DegreeRecognized,
		); err != nil {
			return nil, fmt.Errorf("sqlite scan: %w", err)
		}
		row.CreatedAt = time.UnixMilli(createdMs).UTC()
		if breakEven.Valid {
			v := breakEven.Float64
			row.BreakEvenYears = &v
		}
		out = append(out, row.record())
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
