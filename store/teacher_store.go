package store

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"activities-server-go/models"
)

// TeacherStore is the read-only set of teacher accounts loaded at startup
type TeacherStore struct {
	teachers map[string]models.Teacher
}

// teacherRoster matches the on-disk layout of the credential file
type teacherRoster struct {
	Teachers []models.Teacher `json:"teachers"`
}

// LoadTeacherStore reads the credential roster from a JSON file. The server
// cannot run without valid credentials, so any error here is fatal to startup.
func LoadTeacherStore(filename string) (*TeacherStore, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read teachers file %s: %w", filename, err)
	}

	var roster teacherRoster
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse teachers file %s: %w", filename, err)
	}

	teachers := make(map[string]models.Teacher, len(roster.Teachers))
	for _, t := range roster.Teachers {
		if t.Username == "" || t.PasswordHash == "" {
			return nil, fmt.Errorf("teachers file %s: entry with empty username or password_hash", filename)
		}
		teachers[t.Username] = t
	}

	return &TeacherStore{teachers: teachers}, nil
}

// FindTeacher looks up a teacher by username
func (s *TeacherStore) FindTeacher(username string) (models.Teacher, bool) {
	t, ok := s.teachers[username]
	return t, ok
}

// VerifyCredentials checks a username/password pair against the roster.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *TeacherStore) VerifyCredentials(username, password string) bool {
	t, ok := s.teachers[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(password)) == nil
}
