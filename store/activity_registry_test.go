package store

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"activities-server-go/models"
)

func testRegistry() *ActivityRegistry {
	return NewActivityRegistry(map[string]*models.Activity{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Math Club": {
			Description:     "Solve challenging problems",
			Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 2,
			Participants:    []string{"james@mergington.edu"},
		},
	})
}

func TestSignupAddsParticipant(t *testing.T) {
	r := testRegistry()

	err := r.Signup("Chess Club", "test@mergington.edu")
	require.NoError(t, err)

	activities := r.List()
	assert.Contains(t, activities["Chess Club"].Participants, "test@mergington.edu")
	assert.Len(t, activities["Chess Club"].Participants, 3)
}

func TestSignupDuplicate(t *testing.T) {
	r := testRegistry()

	require.NoError(t, r.Signup("Chess Club", "test@mergington.edu"))

	// Repeating the same signup fails and leaves the roster unchanged
	err := r.Signup("Chess Club", "test@mergington.edu")
	assert.ErrorIs(t, err, ErrAlreadySignedUp)
	err = r.Signup("Chess Club", "test@mergington.edu")
	assert.ErrorIs(t, err, ErrAlreadySignedUp)

	assert.Len(t, r.List()["Chess Club"].Participants, 3)
}

func TestSignupUnknownActivity(t *testing.T) {
	r := testRegistry()

	err := r.Signup("Juggling Club", "test@mergington.edu")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestSignupFullActivity(t *testing.T) {
	r := testRegistry()

	require.NoError(t, r.Signup("Math Club", "second@mergington.edu"))

	err := r.Signup("Math Club", "third@mergington.edu")
	assert.ErrorIs(t, err, ErrActivityFull)
	assert.Len(t, r.List()["Math Club"].Participants, 2)
}

func TestUnregisterRemovesParticipant(t *testing.T) {
	r := testRegistry()

	require.NoError(t, r.Unregister("Chess Club", "michael@mergington.edu"))

	activities := r.List()
	assert.NotContains(t, activities["Chess Club"].Participants, "michael@mergington.edu")
	assert.Equal(t, []string{"daniel@mergington.edu"}, activities["Chess Club"].Participants)

	err := r.Unregister("Chess Club", "michael@mergington.edu")
	assert.ErrorIs(t, err, ErrNotSignedUp)
}

func TestUnregisterUnknownActivity(t *testing.T) {
	r := testRegistry()

	err := r.Unregister("Juggling Club", "test@mergington.edu")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestListIsASnapshot(t *testing.T) {
	r := testRegistry()

	snapshot := r.List()
	chess := snapshot["Chess Club"]
	chess.Participants[0] = "mutated@mergington.edu"

	assert.Equal(t, "michael@mergington.edu", r.List()["Chess Club"].Participants[0],
		"mutating a snapshot must not change registry state")
}

func TestListReflectsNetRoster(t *testing.T) {
	r := testRegistry()

	for i := 0; i < 5; i++ {
		require.NoError(t, r.Signup("Chess Club", fmt.Sprintf("s%d@mergington.edu", i)))
	}
	require.NoError(t, r.Unregister("Chess Club", "s1@mergington.edu"))
	require.NoError(t, r.Unregister("Chess Club", "s3@mergington.edu"))

	assert.Len(t, r.List()["Chess Club"].Participants, 5) // 2 seeded + 5 - 2
}

func TestConcurrentSignups(t *testing.T) {
	r := NewActivityRegistry(map[string]*models.Activity{
		"Gym Class": {MaxParticipants: 100},
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, r.Signup("Gym Class", fmt.Sprintf("s%d@mergington.edu", i)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.List()["Gym Class"].Participants, 50, "no concurrent signup may be lost")
}

func TestConcurrentSignupsRespectCapacity(t *testing.T) {
	r := NewActivityRegistry(map[string]*models.Activity{
		"Math Club": {MaxParticipants: 10},
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Signup("Math Club", fmt.Sprintf("s%d@mergington.edu", i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.List()["Math Club"].Participants, 10, "capacity must hold under concurrency")
}

func TestExportExcel(t *testing.T) {
	r := testRegistry()

	var buf bytes.Buffer
	require.NoError(t, r.ExportExcel(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)

	// Header plus one row per (activity, participant): 2 + 1 seeded
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Activity", "Schedule", "Capacity", "Enrolled", "Participant"}, rows[0])
	assert.Equal(t, "Chess Club", rows[1][0])
	assert.Equal(t, "michael@mergington.edu", rows[1][4])
	assert.Equal(t, "daniel@mergington.edu", rows[2][4])
	assert.Equal(t, "Math Club", rows[3][0])
}
