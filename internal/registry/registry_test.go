package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/kardemumma/internal/apperr"
	"github.com/shrimpsizemoose/kardemumma/internal/models"
	"github.com/shrimpsizemoose/kardemumma/internal/store/jsonfile"
)

func setupRegistry(t *testing.T) (*Registry, *jsonfile.JSONFileStore) {
	docStore, err := jsonfile.NewJSONFileStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err, "Failed to create store")
	return NewRegistry(docStore), docStore
}

func TestRegistry_CreateCourse(t *testing.T) {
	registry, _ := setupRegistry(t)

	course, err := registry.CreateCourse("2024S", "CS101", "A", "Intro")
	require.NoError(t, err)
	assert.Equal(t, 1, course.ID)

	t.Run("Duplicate triple refused", func(t *testing.T) {
		_, err := registry.CreateCourse("2024S", "CS101", "A", "Other name")
		assert.True(t, apperr.Is(err, apperr.KindConflict))
	})

	t.Run("Different section allowed", func(t *testing.T) {
		second, err := registry.CreateCourse("2024S", "CS101", "B", "Intro")
		require.NoError(t, err)
		assert.Equal(t, 2, second.ID)
	})

	t.Run("Missing fields refused", func(t *testing.T) {
		_, err := registry.CreateCourse("2024S", "", "A", "Intro")
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})
}

func TestRegistry_UpdateCourse(t *testing.T) {
	registry, docStore := setupRegistry(t)

	course, err := registry.CreateCourse("2024S", "CS101", "A", "Intro")
	require.NoError(t, err)

	t.Run("Identity editable before sheets exist", func(t *testing.T) {
		updated, err := registry.UpdateCourse(course.ID, models.CoursePatch{Code: "CS102"})
		require.NoError(t, err)
		assert.Equal(t, "CS102", updated.Code)
		assert.Equal(t, "Intro", updated.Name, "empty patch field keeps value")
	})

	err = docStore.Update(func(db *models.Database) error {
		db.Sheets = append(db.Sheets, models.Sheet{ID: 1, CourseID: course.ID, AssignmentName: "Lab 1"})
		return nil
	})
	require.NoError(t, err)

	t.Run("Identity frozen once sheets exist", func(t *testing.T) {
		_, err := registry.UpdateCourse(course.ID, models.CoursePatch{Code: "CS999"})
		assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	})

	t.Run("Name still editable with sheets", func(t *testing.T) {
		updated, err := registry.UpdateCourse(course.ID, models.CoursePatch{Name: "Advanced Intro"})
		require.NoError(t, err)
		assert.Equal(t, "Advanced Intro", updated.Name)
	})

	t.Run("Unknown course", func(t *testing.T) {
		_, err := registry.UpdateCourse(99, models.CoursePatch{Name: "x"})
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}

func TestRegistry_DeleteCourse(t *testing.T) {
	registry, docStore := setupRegistry(t)

	course, err := registry.CreateCourse("2024S", "CS101", "A", "Intro")
	require.NoError(t, err)

	err = docStore.Update(func(db *models.Database) error {
		db.Sheets = append(db.Sheets, models.Sheet{ID: 1, CourseID: course.ID, AssignmentName: "Lab 1"})
		return nil
	})
	require.NoError(t, err)

	err = registry.DeleteCourse(course.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState), "course with sheets stays")

	err = docStore.Update(func(db *models.Database) error {
		db.Sheets = db.Sheets[:0]
		return nil
	})
	require.NoError(t, err)

	assert.NoError(t, registry.DeleteCourse(course.ID))

	courses, err := registry.ListCourses()
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestRegistry_AddMember(t *testing.T) {
	registry, _ := setupRegistry(t)

	course, err := registry.CreateCourse("2024S", "CS101", "A", "Intro")
	require.NoError(t, err)

	member, err := registry.AddMember(course.ID, "ivanov.ii", "Ivan", "Ivanov", "secret")
	require.NoError(t, err)
	assert.Equal(t, 1, member.ID)

	t.Run("Duplicate username in course refused", func(t *testing.T) {
		_, err := registry.AddMember(course.ID, "ivanov.ii", "Other", "Ivanov", "secret")
		assert.True(t, apperr.Is(err, apperr.KindConflict))
	})

	t.Run("Same username in another course allowed", func(t *testing.T) {
		other, err := registry.CreateCourse("2024S", "CS101", "B", "Intro")
		require.NoError(t, err)
		_, err = registry.AddMember(other.ID, "ivanov.ii", "Ivan", "Ivanov", "secret")
		assert.NoError(t, err)
	})
}

func TestRegistry_DeleteMember(t *testing.T) {
	registry, docStore := setupRegistry(t)

	course, err := registry.CreateCourse("2024S", "CS101", "A", "Intro")
	require.NoError(t, err)
	member, err := registry.AddMember(course.ID, "ivanov.ii", "Ivan", "Ivanov", "secret")
	require.NoError(t, err)

	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	err = docStore.Update(func(db *models.Database) error {
		db.Sheets = append(db.Sheets, models.Sheet{ID: 1, CourseID: course.ID, AssignmentName: "Lab 1"})
		db.Slots = append(db.Slots, models.Slot{
			ID: 1, SheetID: 1, StartTime: start, EndTime: start.Add(time.Hour),
			MaxMembers: 2, SignupMemberIDs: []int{member.ID},
		})
		return nil
	})
	require.NoError(t, err)

	err = registry.DeleteMember(course.ID, member.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState), "member with signup stays")

	err = docStore.Update(func(db *models.Database) error {
		db.Slots[0].SignupMemberIDs = []int{}
		return nil
	})
	require.NoError(t, err)

	assert.NoError(t, registry.DeleteMember(course.ID, member.ID))
}

func TestRegistry_BulkAddMembers(t *testing.T) {
	registry, _ := setupRegistry(t)

	course, err := registry.CreateCourse("2024S", "CS101", "A", "Intro")
	require.NoError(t, err)
	_, err = registry.AddMember(course.ID, "existing.user", "Ex", "Isting", "secret")
	require.NoError(t, err)

	added, err := registry.BulkAddMembers(course.ID, []models.MemberRow{
		{LastName: "Ivanov", FirstName: "Ivan", Username: "ivanov.ii", Password: "pw1"},
		{LastName: "NoLogin", FirstName: "Skip", Username: "", Password: "pw2"},
		{LastName: "NoPass", FirstName: "Skip", Username: "nopass.user", Password: ""},
		{LastName: "Isting", FirstName: "Ex", Username: "existing.user", Password: "pw3"},
		{LastName: "Petrov", FirstName: "Petr", Username: "petrov.pp", Password: "pw4"},
	})
	require.NoError(t, err)

	require.Len(t, added, 2, "skips blank and duplicate rows")
	assert.Equal(t, "ivanov.ii", added[0].Username)
	assert.Equal(t, "petrov.pp", added[1].Username)

	members, err := registry.ListMembers(course.ID)
	require.NoError(t, err)
	assert.Len(t, members, 3)
}
