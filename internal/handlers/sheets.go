package handlers

import (
	"net/http"
)

func (a *API) HandleListSheets(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseId")
	if err != nil {
		fail(w, err, "invalid course id")
		return
	}

	sheets, err := a.service.Schedule.ListSheets(courseID)
	if err != nil {
		fail(w, err, "failed to fetch sheets")
		return
	}
	writeOK(w, map[string]interface{}{"sheets": sheets})
}

func (a *API) HandleAddSheet(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseId")
	if err != nil {
		fail(w, err, "invalid course id")
		return
	}

	var payload struct {
		AssignmentName string `json:"assignmentName"`
		Description    string `json:"description"`
	}
	if err := decodeBody(r, &payload); err != nil {
		fail(w, err, "failed to read request")
		return
	}

	sheet, err := a.service.Schedule.AddSheet(courseID, payload.AssignmentName, payload.Description)
	if err != nil {
		fail(w, err, "failed to create sheet")
		return
	}
	writeOK(w, map[string]interface{}{"sheet": sheet})
}

func (a *API) HandleUpdateSheet(w http.ResponseWriter, r *http.Request) {
	sheetID, err := pathID(r, "sheetId")
	if err != nil {
		fail(w, err, "invalid sheet id")
		return
	}

	var payload struct {
		AssignmentName string `json:"assignmentName"`
		Description    string `json:"description"`
	}
	if err := decodeBody(r, &payload); err != nil {
		fail(w, err, "failed to read request")
		return
	}

	sheet, err := a.service.Schedule.UpdateSheet(sheetID, payload.AssignmentName, payload.Description)
	if err != nil {
		fail(w, err, "failed to update sheet")
		return
	}
	writeOK(w, map[string]interface{}{"sheet": sheet})
}

func (a *API) HandleDeleteSheet(w http.ResponseWriter, r *http.Request) {
	sheetID, err := pathID(r, "sheetId")
	if err != nil {
		fail(w, err, "invalid sheet id")
		return
	}

	if err := a.service.Schedule.DeleteSheet(sheetID); err != nil {
		fail(w, err, "failed to delete sheet")
		return
	}
	writeOK(w, map[string]interface{}{"deletedId": sheetID})
}
