package jsonfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/kardemumma/internal/models"
)

func setupStore(t *testing.T) (*JSONFileStore, string) {
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := NewJSONFileStore(path)
	require.NoError(t, err, "Failed to create store")
	return s, path
}

func TestJSONFileStore_MissingFileIsEmpty(t *testing.T) {
	s, path := setupStore(t)

	db, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, db.Courses)
	assert.Empty(t, db.Slots)

	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist), "plain Load must not create the file")
}

func TestJSONFileStore_UpdatePersists(t *testing.T) {
	s, path := setupStore(t)

	err := s.Update(func(db *models.Database) error {
		db.Courses = append(db.Courses, models.Course{
			ID: 1, Term: "2024S", Code: "CS101", Section: "A", Name: "Intro",
		})
		return nil
	})
	require.NoError(t, err)

	// read through a fresh store to prove it hit disk
	reopened, err := NewJSONFileStore(path)
	require.NoError(t, err)
	db, err := reopened.Load()
	require.NoError(t, err)
	require.Len(t, db.Courses, 1)
	assert.Equal(t, "CS101", db.Courses[0].Code)
}

func TestJSONFileStore_CallbackErrorAbortsSave(t *testing.T) {
	s, path := setupStore(t)

	err := s.Update(func(db *models.Database) error {
		db.Courses = append(db.Courses, models.Course{
			ID: 1, Term: "2024S", Code: "CS101", Section: "A", Name: "Intro",
		})
		return errors.New("nope")
	})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "aborted update must not write")

	db, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, db.Courses)
}

func TestJSONFileStore_LegacyDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	legacy := `{
  "courses": [
    {
      "id": 3,
      "term": "2023F",
      "code": "DE15",
      "section": "A",
      "name": "Data Engineering"
    }
  ],
  "members": [],
  "sheets": [],
  "slots": [],
  "grades": [],
  "audits": []
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s, err := NewJSONFileStore(path)
	require.NoError(t, err)

	db, err := s.Load()
	require.NoError(t, err)
	require.Len(t, db.Courses, 1)
	assert.Equal(t, "DE15", db.Courses[0].Code)
	assert.Equal(t, 4, db.NextCourseID())
}
