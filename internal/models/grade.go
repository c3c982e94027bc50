package models

import "time"

type Grade struct {
	ID         int       `json:"id"`
	SlotID     int       `json:"slotId"`
	MemberID   int       `json:"memberId"`
	BaseMark   int       `json:"baseMark"`
	Bonus      int       `json:"bonus"`
	Penalty    int       `json:"penalty"`
	FinalMark  int       `json:"finalMark"`
	Comment    string    `json:"comment"`
	TAUsername string    `json:"taUsername"`
	GradedAt   time.Time `json:"gradedAt"`
}

// Audit is the last-change snapshot for a grade. Exactly one row survives
// per grade: every grade write replaces the previous one.
type Audit struct {
	ID        int       `json:"id"`
	GradeID   int       `json:"gradeId"`
	ChangedBy string    `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
	Summary   string    `json:"summary"`
}
