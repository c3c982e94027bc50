package models

import (
	"github.com/go-playground/validator/v10"
)

type Course struct {
	ID      int    `json:"id"`
	Term    string `json:"term" validate:"required,max=10"`
	Code    string `json:"code" validate:"required,max=20"`
	Section string `json:"section" validate:"required,max=10"`
	Name    string `json:"name" validate:"required,max=100"`
}

// CoursePatch carries optional field updates; empty strings mean "keep".
type CoursePatch struct {
	Term    string `json:"term"`
	Code    string `json:"code"`
	Section string `json:"section"`
	Name    string `json:"name"`
}

func (c *Course) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
