package staff

import (
	"context"
	"time"

	"github.com/cccstore/shift-scheduler/internal/domain"
)

// Repository defines the data access contract for the roster and the shift
// preference table.
type Repository interface {
	// List returns the full roster ordered by id.
	List(ctx context.Context) ([]domain.Staff, error)

	// Get returns one staff member. Returns ErrNotFound if absent.
	Get(ctx context.Context, id int) (domain.Staff, error)

	// Create registers a staff member and fills in the assigned id.
	// Returns ErrConflict when the e_mail is already registered.
	Create(ctx context.Context, s *domain.Staff) error

	// Update persists an already-patched staff record. Returns ErrNotFound
	// if absent.
	Update(ctx context.Context, s domain.Staff) error

	// Delete removes a staff member and cascades to their preferences.
	// Past assignments are kept.
	Delete(ctx context.Context, id int) error

	// UpsertPreference stores a shift preference, replacing any previous
	// record for the same (staff_id, date).
	UpsertPreference(ctx context.Context, p domain.ShiftPreference) error

	// ListPreferencesInRange returns preferences with start <= date <= end.
	ListPreferencesInRange(ctx context.Context, start, end time.Time) ([]domain.ShiftPreference, error)
}
