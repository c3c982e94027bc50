package models

import (
	"github.com/go-playground/validator/v10"
)

type Sheet struct {
	ID             int    `json:"id"`
	CourseID       int    `json:"courseId"`
	AssignmentName string `json:"assignmentName" validate:"required,max=100"`
	Description    string `json:"description" validate:"max=500"`
}

func (s *Sheet) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}
