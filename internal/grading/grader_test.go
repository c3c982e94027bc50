package grading

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/kardemumma/internal/apperr"
	"github.com/shrimpsizemoose/kardemumma/internal/models"
	"github.com/shrimpsizemoose/kardemumma/internal/store/jsonfile"
)

var testNow = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

// setupGrader seeds one sheet with three slots: one in the past, one
// containing the pinned clock, one in the future. The student is signed up
// for the middle slot.
func setupGrader(t *testing.T) *Grader {
	docStore, err := jsonfile.NewJSONFileStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err, "Failed to create store")

	err = docStore.Update(func(db *models.Database) error {
		db.Courses = append(db.Courses, models.Course{
			ID: 1, Term: "2024S", Code: "CS101", Section: "A", Name: "Intro",
		})
		db.Members = append(db.Members, models.Member{
			ID: 1, CourseID: 1, Username: "student1", FirstName: "Stu", LastName: "Dent", Password: "pw",
		})
		db.Sheets = append(db.Sheets, models.Sheet{ID: 1, CourseID: 1, AssignmentName: "Lab 1"})
		db.Slots = append(db.Slots,
			models.Slot{
				ID: 1, SheetID: 1,
				StartTime: testNow.Add(-4 * time.Hour), EndTime: testNow.Add(-3 * time.Hour),
				MaxMembers: 2, SignupMemberIDs: []int{},
			},
			models.Slot{
				ID: 2, SheetID: 1,
				StartTime: testNow.Add(-30 * time.Minute), EndTime: testNow.Add(30 * time.Minute),
				MaxMembers: 2, SignupMemberIDs: []int{1},
			},
			models.Slot{
				ID: 3, SheetID: 1,
				StartTime: testNow.Add(3 * time.Hour), EndTime: testNow.Add(4 * time.Hour),
				MaxMembers: 2, SignupMemberIDs: []int{},
			},
		)
		return nil
	})
	require.NoError(t, err, "Failed to seed data")

	grader := NewGrader(docStore)
	grader.now = func() time.Time { return testNow }
	return grader
}

func intPtr(v int) *int { return &v }

func TestGrader_AddOrUpdateGrade(t *testing.T) {
	t.Run("Final mark is base plus bonus minus penalty", func(t *testing.T) {
		grader := setupGrader(t)

		grade, audit, err := grader.AddOrUpdateGrade(2, 1, intPtr(70), 5, 2, "solid work", "ta1")
		require.NoError(t, err)
		assert.Equal(t, 73, grade.FinalMark)
		assert.Equal(t, "solid work", grade.Comment, "creation keeps the comment verbatim")
		assert.Equal(t, "ta1", grade.TAUsername)
		assert.Equal(t, "Updated grade to 73 (base: 70, bonus: 5, penalty: 2)", audit.Summary)
	})

	t.Run("Missing base mark refused", func(t *testing.T) {
		grader := setupGrader(t)

		_, _, err := grader.AddOrUpdateGrade(2, 1, nil, 0, 0, "", "ta1")
		assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	})

	t.Run("Edit without comment refused", func(t *testing.T) {
		grader := setupGrader(t)

		_, _, err := grader.AddOrUpdateGrade(2, 1, intPtr(70), 0, 0, "", "ta1")
		require.NoError(t, err, "creation needs no comment")

		_, _, err = grader.AddOrUpdateGrade(2, 1, intPtr(80), 0, 0, "   ", "ta1")
		assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	})

	t.Run("Edit appends a timestamped comment line", func(t *testing.T) {
		grader := setupGrader(t)

		_, _, err := grader.AddOrUpdateGrade(2, 1, intPtr(70), 0, 0, "first pass", "ta1")
		require.NoError(t, err)

		grade, _, err := grader.AddOrUpdateGrade(2, 1, intPtr(85), 0, 0, "resubmission", "ta2")
		require.NoError(t, err)

		expected := fmt.Sprintf("first pass\n[%s] resubmission", testNow.UTC().Format(time.RFC3339))
		assert.Equal(t, expected, grade.Comment)
		assert.Equal(t, 85, grade.FinalMark)
		assert.Equal(t, "ta2", grade.TAUsername)
	})

	t.Run("Only the latest audit snapshot survives", func(t *testing.T) {
		grader := setupGrader(t)

		grade, _, err := grader.AddOrUpdateGrade(2, 1, intPtr(70), 0, 0, "first", "ta1")
		require.NoError(t, err)
		_, _, err = grader.AddOrUpdateGrade(2, 1, intPtr(90), 0, 0, "second", "ta1")
		require.NoError(t, err)

		audit, err := grader.Audit(grade.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated grade to 90 (base: 90, bonus: 0, penalty: 0)", audit.Summary)

		db, err := grader.store.Load()
		require.NoError(t, err)
		assert.Len(t, db.Audits, 1)
	})
}

func TestGrader_Audit_NotFound(t *testing.T) {
	grader := setupGrader(t)

	_, err := grader.Audit(42)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGrader_CurrentSlot(t *testing.T) {
	t.Run("Slot containing now wins", func(t *testing.T) {
		grader := setupGrader(t)

		roster, err := grader.CurrentSlot(1)
		require.NoError(t, err)
		assert.Equal(t, 2, roster.Slot.ID)
		require.Len(t, roster.Members, 1)
		assert.Equal(t, "student1", roster.Members[0].Username)
		assert.Nil(t, roster.Members[0].Grade)
	})

	t.Run("Most recently concluded when nothing contains now", func(t *testing.T) {
		grader := setupGrader(t)
		grader.now = func() time.Time { return testNow.Add(time.Hour) }

		roster, err := grader.CurrentSlot(1)
		require.NoError(t, err)
		assert.Equal(t, 2, roster.Slot.ID)
	})

	t.Run("Earliest slot when all are upcoming", func(t *testing.T) {
		grader := setupGrader(t)
		grader.now = func() time.Time { return testNow.Add(-24 * time.Hour) }

		roster, err := grader.CurrentSlot(1)
		require.NoError(t, err)
		assert.Equal(t, 1, roster.Slot.ID)
	})

	t.Run("Empty sheet", func(t *testing.T) {
		grader := setupGrader(t)

		_, err := grader.CurrentSlot(99)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}

func TestGrader_Navigate(t *testing.T) {
	grader := setupGrader(t)

	t.Run("Next from middle", func(t *testing.T) {
		roster, err := grader.Navigate(2, "next")
		require.NoError(t, err)
		assert.Equal(t, 3, roster.Slot.ID)
	})

	t.Run("Prev from middle", func(t *testing.T) {
		roster, err := grader.Navigate(2, "prev")
		require.NoError(t, err)
		assert.Equal(t, 1, roster.Slot.ID)
	})

	t.Run("Prev off the start refused", func(t *testing.T) {
		_, err := grader.Navigate(1, "prev")
		assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	})

	t.Run("Next off the end refused", func(t *testing.T) {
		_, err := grader.Navigate(3, "next")
		assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	})

	t.Run("Unknown slot", func(t *testing.T) {
		_, err := grader.Navigate(42, "next")
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}
