package models

import (
	"github.com/go-playground/validator/v10"
)

type Member struct {
	ID        int    `json:"id"`
	CourseID  int    `json:"courseId"`
	Username  string `json:"username" validate:"required,max=64"`
	FirstName string `json:"firstName" validate:"required,max=200"`
	LastName  string `json:"lastName" validate:"required,max=200"`
	Password  string `json:"password" validate:"required"`
}

// MemberRow is one line of a bulk roster import: last,first,username,password.
type MemberRow struct {
	LastName  string
	FirstName string
	Username  string
	Password  string
}

func (m *Member) Validate() error {
	validate := validator.New()
	return validate.Struct(m)
}
