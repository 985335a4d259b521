package staff

import (
	"context"
	"fmt"
	"strings"

	"github.com/cccstore/shift-scheduler/internal/domain"
	"github.com/cccstore/shift-scheduler/internal/pkg/logger"
)

// Service implements roster business logic. It is safe for concurrent use.
type Service struct {
	repo Repository
}

// NewService creates a staff service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the full roster.
func (s *Service) List(ctx context.Context) ([]domain.Staff, error) {
	return s.repo.List(ctx)
}

// Get returns one staff member by id.
func (s *Service) Get(ctx context.Context, id int) (domain.Staff, error) {
	return s.repo.Get(ctx, id)
}

// Register validates and stores a new staff member, returning the record
// with its assigned id.
func (s *Service) Register(ctx context.Context, st domain.Staff) (domain.Staff, error) {
	st.Name = strings.TrimSpace(st.Name)
	st.Email = strings.ToLower(strings.TrimSpace(st.Email))
	if err := st.Validate(); err != nil {
		return domain.Staff{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := s.repo.Create(ctx, &st); err != nil {
		return domain.Staff{}, err
	}
	logger.Info("staff registered", "id", st.ID, "e_mail", st.Email)
	return st, nil
}

// Patch applies the non-nil fields of p to the stored record and persists
// the result.
func (s *Service) Patch(ctx context.Context, id int, p domain.StaffPatch) (domain.Staff, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Staff{}, err
	}

	if p.Name != nil {
		st.Name = strings.TrimSpace(*p.Name)
	}
	if p.Age != nil {
		st.Age = *p.Age
	}
	if p.Level != nil {
		st.Level = *p.Level
	}
	if p.Status != nil {
		st.Status = *p.Status
	}
	if p.Gender != nil {
		st.Gender = *p.Gender
	}
	if err := st.Validate(); err != nil {
		return domain.Staff{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return domain.Staff{}, err
	}
	return st, nil
}

// Remove deletes a staff member from the roster. Historical assignments
// referencing the id are left in place.
func (s *Service) Remove(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("staff removed", "id", id)
	return nil
}

// SubmitPreference records that the staff member is willing to work the
// flagged segments on the given date. Resubmission replaces the previous
// record for that day.
func (s *Service) SubmitPreference(ctx context.Context, p domain.ShiftPreference) error {
	if _, err := s.repo.Get(ctx, p.StaffID); err != nil {
		return err
	}
	for _, seg := range []int{p.Morning, p.Afternoon, p.Night} {
		if seg != 0 && seg != 1 {
			return fmt.Errorf("%w: segment flags must be 0 or 1", ErrInvalid)
		}
	}
	p.Date = domain.DateOf(p.Date)
	return s.repo.UpsertPreference(ctx, p)
}
