package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Slot struct {
	ID              int       `json:"id"`
	SheetID         int       `json:"sheetId"`
	StartTime       time.Time `json:"startTime" validate:"required"`
	EndTime         time.Time `json:"endTime" validate:"required"`
	MaxMembers      int       `json:"maxMembers" validate:"required,min=1,max=99"`
	SignupMemberIDs []int     `json:"signupMemberIds"`
}

// SlotPatch carries optional slot updates; zero values mean "keep".
type SlotPatch struct {
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	MaxMembers int       `json:"maxMembers"`
}

func (s *Slot) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

func (s *Slot) HasMember(memberID int) bool {
	for _, id := range s.SignupMemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

func (s *Slot) Occupancy() int {
	return len(s.SignupMemberIDs)
}
