// Package grading holds the grade/audit engine: one grade per (slot, member)
// with upsert semantics, a derived final mark, an append-only comment trail,
// and a single-row audit snapshot per grade.
package grading

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shrimpsizemoose/kardemumma/internal/apperr"
	"github.com/shrimpsizemoose/kardemumma/internal/models"
	"github.com/shrimpsizemoose/kardemumma/internal/store"
)

type Grader struct {
	store store.DocStore
	now   func() time.Time
}

func NewGrader(docStore store.DocStore) *Grader {
	return &Grader{
		store: docStore,
		now:   time.Now,
	}
}

// MemberGrade is an enrolled member decorated with their grade, if any.
type MemberGrade struct {
	models.Member
	Grade *models.Grade `json:"grade"`
}

// SlotRoster is a slot plus its signed-up members, ready for grading mode.
type SlotRoster struct {
	Slot    models.Slot   `json:"slot"`
	Members []MemberGrade `json:"members"`
}

// CurrentSlot picks the slot a TA most likely wants on screen: the one
// containing now, else the most recently concluded one, else the earliest.
func (g *Grader) CurrentSlot(sheetID int) (*SlotRoster, error) {
	db, err := g.store.Load()
	if err != nil {
		return nil, err
	}

	slots := sheetSlotsByStart(db, sheetID)
	if len(slots) == 0 {
		return nil, apperr.NotFound("no slots found")
	}

	now := g.now()
	var current *models.Slot
	for i := range slots {
		if !now.Before(slots[i].StartTime) && !now.After(slots[i].EndTime) {
			current = &slots[i]
			break
		}
		if now.After(slots[i].EndTime) {
			current = &slots[i]
		}
	}
	if current == nil {
		current = &slots[0]
	}

	return rosterFor(db, *current), nil
}

// Navigate returns the previous or next slot in the same sheet, ordered by
// start time.
func (g *Grader) Navigate(slotID int, direction string) (*SlotRoster, error) {
	db, err := g.store.Load()
	if err != nil {
		return nil, err
	}

	slot := db.SlotByID(slotID)
	if slot == nil {
		return nil, apperr.NotFound("slot not found")
	}

	slots := sheetSlotsByStart(db, slot.SheetID)
	index := -1
	for i := range slots {
		if slots[i].ID == slotID {
			index = i
			break
		}
	}

	var target *models.Slot
	switch {
	case direction == "prev" && index > 0:
		target = &slots[index-1]
	case direction == "next" && index < len(slots)-1:
		target = &slots[index+1]
	}
	if target == nil {
		return nil, apperr.InvalidState("no adjacent slot available")
	}

	return rosterFor(db, *target), nil
}

// AddOrUpdateGrade upserts the grade for a (slot, member) pair.
// finalMark = baseMark + bonus - penalty, deliberately unclamped. Creation
// takes the comment verbatim and does not require one; every later edit must
// carry a comment, which is timestamped and appended to the existing trail.
// Each write replaces the grade's audit snapshot.
func (g *Grader) AddOrUpdateGrade(slotID, memberID int, baseMark *int, bonus, penalty int, comment, taUsername string) (*models.Grade, *models.Audit, error) {
	if baseMark == nil {
		return nil, nil, apperr.InvalidState("baseMark is required")
	}

	var grade models.Grade
	var audit models.Audit
	err := g.store.Update(func(db *models.Database) error {
		now := g.now()
		finalMark := *baseMark + bonus - penalty

		existing := db.GradeFor(slotID, memberID)
		if existing != nil {
			if strings.TrimSpace(comment) == "" {
				return apperr.InvalidState("comment is required when modifying grade")
			}

			existing.BaseMark = *baseMark
			existing.Bonus = bonus
			existing.Penalty = penalty
			existing.FinalMark = finalMark

			entry := fmt.Sprintf("[%s] %s", now.UTC().Format(time.RFC3339), comment)
			if existing.Comment != "" {
				existing.Comment = existing.Comment + "\n" + entry
			} else {
				existing.Comment = entry
			}

			existing.TAUsername = taUsername
			existing.GradedAt = now
			grade = *existing
		} else {
			grade = models.Grade{
				ID:         db.NextGradeID(),
				SlotID:     slotID,
				MemberID:   memberID,
				BaseMark:   *baseMark,
				Bonus:      bonus,
				Penalty:    penalty,
				FinalMark:  finalMark,
				Comment:    comment,
				TAUsername: taUsername,
				GradedAt:   now,
			}
			db.Grades = append(db.Grades, grade)
		}

		// single snapshot per grade: drop prior audits before appending
		kept := db.Audits[:0]
		for _, a := range db.Audits {
			if a.GradeID != grade.ID {
				kept = append(kept, a)
			}
		}
		db.Audits = kept

		audit = models.Audit{
			ID:        db.NextAuditID(),
			GradeID:   grade.ID,
			ChangedBy: taUsername,
			ChangedAt: grade.GradedAt,
			Summary: fmt.Sprintf("Updated grade to %d (base: %d, bonus: %d, penalty: %d)",
				finalMark, *baseMark, bonus, penalty),
		}
		db.Audits = append(db.Audits, audit)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &grade, &audit, nil
}

// Audit fetches the surviving snapshot for a grade. Only the latest change is
// retained, so this is a snapshot lookup, not a history walk.
func (g *Grader) Audit(gradeID int) (*models.Audit, error) {
	db, err := g.store.Load()
	if err != nil {
		return nil, err
	}

	for _, a := range db.Audits {
		if a.GradeID == gradeID {
			audit := a
			return &audit, nil
		}
	}
	return nil, apperr.NotFound("no audit history found")
}

func sheetSlotsByStart(db *models.Database, sheetID int) []models.Slot {
	slots := db.SheetSlots(sheetID)
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})
	return slots
}

func rosterFor(db *models.Database, slot models.Slot) *SlotRoster {
	roster := &SlotRoster{Slot: slot, Members: []MemberGrade{}}
	for _, id := range slot.SignupMemberIDs {
		member := db.MemberByID(id)
		if member == nil {
			continue
		}
		roster.Members = append(roster.Members, MemberGrade{
			Member: *member,
			Grade:  db.GradeFor(slot.ID, id),
		})
	}
	return roster
}
