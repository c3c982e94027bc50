package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/kardemumma/internal/models"
)

func (a *API) HandleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := a.service.Registry.ListCourses()
	if err != nil {
		fail(w, err, "failed to fetch courses")
		return
	}
	writeOK(w, map[string]interface{}{"courses": courses})
}

func (a *API) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Term    string `json:"term"`
		Code    string `json:"code"`
		Section string `json:"section"`
		Name    string `json:"name"`
	}
	if err := decodeBody(r, &payload); err != nil {
		fail(w, err, "failed to read request")
		return
	}

	course, err := a.service.Registry.CreateCourse(payload.Term, payload.Code, payload.Section, payload.Name)
	if err != nil {
		fail(w, err, "failed to create course")
		return
	}
	writeOK(w, map[string]interface{}{"course": course})
}

func (a *API) HandleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, err, "invalid course id")
		return
	}

	var patch models.CoursePatch
	if err := decodeBody(r, &patch); err != nil {
		fail(w, err, "failed to read request")
		return
	}

	course, err := a.service.Registry.UpdateCourse(id, patch)
	if err != nil {
		fail(w, err, "failed to update course")
		return
	}
	writeOK(w, map[string]interface{}{"course": course})
}

func (a *API) HandleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, err, "invalid course id")
		return
	}

	if err := a.service.Registry.DeleteCourse(id); err != nil {
		fail(w, err, "failed to delete course")
		return
	}
	writeOK(w, map[string]interface{}{"deletedId": id})
}
