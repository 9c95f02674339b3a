package store

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/xuri/excelize/v2"

	"activities-server-go/models"
)

// Roster mutation errors, mapped to HTTP status codes by the handlers
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadySignedUp  = errors.New("student is already signed up")
	ErrNotSignedUp      = errors.New("student is not signed up for this activity")
	ErrActivityFull     = errors.New("activity is full")
)

// ActivityRegistry holds the in-memory activity catalog and rosters.
// The mutex covers every check-then-mutate sequence so concurrent signups
// against the same activity cannot race.
type ActivityRegistry struct {
	mu         sync.Mutex
	activities map[string]*models.Activity
}

// NewActivityRegistry creates a registry seeded with the given activities
func NewActivityRegistry(seed map[string]*models.Activity) *ActivityRegistry {
	activities := make(map[string]*models.Activity, len(seed))
	for name, a := range seed {
		copied := *a
		copied.Participants = append([]string(nil), a.Participants...)
		activities[name] = &copied
	}
	return &ActivityRegistry{activities: activities}
}

// List returns a snapshot of every activity keyed by name. The snapshot is
// deep-copied so callers can never mutate registry state through it.
func (r *ActivityRegistry) List() map[string]models.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]models.Activity, len(r.activities))
	for name, a := range r.activities {
		copied := *a
		copied.Participants = append([]string(nil), a.Participants...)
		snapshot[name] = copied
	}
	return snapshot
}

// Signup adds a student email to an activity's roster
func (r *ActivityRegistry) Signup(name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return ErrActivityNotFound
	}
	for _, p := range activity.Participants {
		if p == email {
			return ErrAlreadySignedUp
		}
	}
	if len(activity.Participants) >= activity.MaxParticipants {
		return ErrActivityFull
	}
	activity.Participants = append(activity.Participants, email)
	return nil
}

// Unregister removes a student email from an activity's roster
func (r *ActivityRegistry) Unregister(name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return ErrActivityNotFound
	}
	for i, p := range activity.Participants {
		if p == email {
			activity.Participants = append(activity.Participants[:i], activity.Participants[i+1:]...)
			return nil
		}
	}
	return ErrNotSignedUp
}

// ExportExcel writes the full activity catalog as an .xlsx workbook, one row
// per (activity, participant), so staff can pull rosters into spreadsheets.
func (r *ActivityRegistry) ExportExcel(w io.Writer) error {
	snapshot := r.List()

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Activity", "Schedule", "Capacity", "Enrolled", "Participant"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	rowNum := 2
	for _, name := range names {
		activity := snapshot[name]
		if len(activity.Participants) == 0 {
			row := []interface{}{name, activity.Schedule, activity.MaxParticipants, 0, ""}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNum), &row); err != nil {
				return fmt.Errorf("failed to write row for %s: %w", name, err)
			}
			rowNum++
			continue
		}
		for _, email := range activity.Participants {
			row := []interface{}{name, activity.Schedule, activity.MaxParticipants, len(activity.Participants), email}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNum), &row); err != nil {
				return fmt.Errorf("failed to write row for %s: %w", name, err)
			}
			rowNum++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
