package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cccstore/shift-scheduler/internal/domain"
)

// ScheduleRepo implements schedule.Repository against PostgreSQL.
type ScheduleRepo struct{ db *sql.DB }

// NewScheduleRepo creates a Postgres-backed schedule repository.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

func (r *ScheduleRepo) ListStaff(ctx context.Context) ([]domain.Staff, error) {
	return NewStaffRepo(r.db).List(ctx)
}

func (r *ScheduleRepo) ListPreferencesInRange(ctx context.Context, start, end time.Time) ([]domain.ShiftPreference, error) {
	return NewStaffRepo(r.db).ListPreferencesInRange(ctx, start, end)
}

func (r *ScheduleRepo) GetPredictionsInRange(ctx context.Context, start, end time.Time) ([]domain.DailyPrediction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, predicted_sales
		FROM daily_prediction
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	var out []domain.DailyPrediction
	for rows.Next() {
		var p domain.DailyPrediction
		if err := rows.Scan(&p.Date, &p.PredictedSales); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		p.Date = domain.DateOf(p.Date)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ScheduleRepo) UpsertPredictions(ctx context.Context, preds []domain.DailyPrediction) error {
	if len(preds) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin predictions tx: %w", err)
	}
	defer tx.Rollback()

	for _, p := range preds {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO daily_prediction (date, predicted_sales)
			VALUES ($1, $2)
			ON CONFLICT (date) DO UPDATE SET predicted_sales = $2
		`, p.Date, p.PredictedSales)
		if err != nil {
			return fmt.Errorf("upsert prediction: %w", err)
		}
	}
	return tx.Commit()
}

// ReplaceAssignmentsInRange swaps the window's schedule in one transaction
// so readers never see a half-written schedule.
func (r *ScheduleRepo) ReplaceAssignmentsInRange(ctx context.Context, start, end time.Time, as []domain.Assignment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assignments tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM shift_ass WHERE date BETWEEN $1 AND $2`, start, end,
	); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}

	for _, a := range as {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO shift_ass (date, hour, staff_id, name, level, status, salary)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, a.Date, a.Hour, a.StaffID, a.Name, a.Level, a.Status, a.Salary)
		if err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	return tx.Commit()
}

func (r *ScheduleRepo) ListAssignmentsInRange(ctx context.Context, start, end time.Time) ([]domain.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, hour, staff_id, name, level, status, salary
		FROM shift_ass
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, hour, staff_id
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.ID, &a.Date, &a.Hour, &a.StaffID, &a.Name, &a.Level, &a.Status, &a.Salary); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		a.Date = domain.DateOf(a.Date)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ScheduleRepo) CreateDailyReport(ctx context.Context, rep domain.DailyReport) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_report (date, sales)
		VALUES ($1, $2)
		ON CONFLICT (date) DO UPDATE SET sales = $2
	`, rep.Date, rep.Sales)
	if err != nil {
		return fmt.Errorf("create daily report: %w", err)
	}
	return nil
}
