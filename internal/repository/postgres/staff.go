package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/cccstore/shift-scheduler/internal/domain"
	"github.com/cccstore/shift-scheduler/internal/service/staff"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

// StaffRepo implements staff.Repository against PostgreSQL.
type StaffRepo struct{ db *sql.DB }

// NewStaffRepo creates a Postgres-backed staff repository.
func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{db: db} }

func (r *StaffRepo) List(ctx context.Context) ([]domain.Staff, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, age, level, status, e_mail, gender
		FROM staff
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var out []domain.Staff
	for rows.Next() {
		var s domain.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Age, &s.Level, &s.Status, &s.Email, &s.Gender); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StaffRepo) Get(ctx context.Context, id int) (domain.Staff, error) {
	var s domain.Staff
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, age, level, status, e_mail, gender
		FROM staff
		WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Age, &s.Level, &s.Status, &s.Email, &s.Gender)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Staff{}, staff.ErrNotFound
	}
	if err != nil {
		return domain.Staff{}, fmt.Errorf("get staff: %w", err)
	}
	return s, nil
}

func (r *StaffRepo) Create(ctx context.Context, s *domain.Staff) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO staff (name, age, level, status, e_mail, gender)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, s.Name, s.Age, s.Level, s.Status, s.Email, s.Gender).Scan(&s.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return staff.ErrConflict
		}
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

func (r *StaffRepo) Update(ctx context.Context, s domain.Staff) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE staff
		SET name = $2, age = $3, level = $4, status = $5, gender = $6
		WHERE id = $1
	`, s.ID, s.Name, s.Age, s.Level, s.Status, s.Gender)
	if err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

func (r *StaffRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

func (r *StaffRepo) UpsertPreference(ctx context.Context, p domain.ShiftPreference) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shift_pre (staff_id, date, morning, afternoon, night)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (staff_id, date)
		DO UPDATE SET morning = $3, afternoon = $4, night = $5
	`, p.StaffID, p.Date, p.Morning, p.Afternoon, p.Night)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

func (r *StaffRepo) ListPreferencesInRange(ctx context.Context, start, end time.Time) ([]domain.ShiftPreference, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT staff_id, date, morning, afternoon, night
		FROM shift_pre
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, staff_id
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	var out []domain.ShiftPreference
	for rows.Next() {
		var p domain.ShiftPreference
		if err := rows.Scan(&p.StaffID, &p.Date, &p.Morning, &p.Afternoon, &p.Night); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		p.Date = domain.DateOf(p.Date)
		out = append(out, p)
	}
	return out, rows.Err()
}
