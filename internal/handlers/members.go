package handlers

import (
	"encoding/csv"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/kardemumma/internal/models"
)

func (a *API) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseId")
	if err != nil {
		fail(w, err, "invalid course id")
		return
	}

	members, err := a.service.Registry.ListMembers(courseID)
	if err != nil {
		fail(w, err, "failed to fetch members")
		return
	}
	writeOK(w, map[string]interface{}{"members": members})
}

func (a *API) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseId")
	if err != nil {
		fail(w, err, "invalid course id")
		return
	}

	var payload struct {
		Username  string `json:"username"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Password  string `json:"password"`
	}
	if err := decodeBody(r, &payload); err != nil {
		fail(w, err, "failed to read request")
		return
	}

	member, err := a.service.Registry.AddMember(courseID, payload.Username, payload.FirstName, payload.LastName, payload.Password)
	if err != nil {
		fail(w, err, "failed to add member")
		return
	}
	writeOK(w, map[string]interface{}{"member": member})
}

func (a *API) HandleDeleteMember(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseId")
	if err != nil {
		fail(w, err, "invalid course id")
		return
	}
	memberID, err := pathID(r, "memberId")
	if err != nil {
		fail(w, err, "invalid member id")
		return
	}

	if err := a.service.Registry.DeleteMember(courseID, memberID); err != nil {
		fail(w, err, "failed to delete member")
		return
	}
	writeOK(w, nil)
}

// HandleBulkAddMembers ingests a multipart CSV roster: last,first,username,password
// per line, no header.
func (a *API) HandleBulkAddMembers(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseId")
	if err != nil {
		fail(w, err, "invalid course id")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "CSV file required")
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		logger.Error.Printf("Failed to parse roster CSV: %v", err)
		writeError(w, http.StatusBadRequest, "invalid CSV file")
		return
	}

	rows := make([]models.MemberRow, 0, len(records))
	for _, record := range records {
		var row models.MemberRow
		if len(record) > 0 {
			row.LastName = record[0]
		}
		if len(record) > 1 {
			row.FirstName = record[1]
		}
		if len(record) > 2 {
			row.Username = record[2]
		}
		if len(record) > 3 {
			row.Password = record[3]
		}
		rows = append(rows, row)
	}

	added, err := a.service.Registry.BulkAddMembers(courseID, rows)
	if err != nil {
		fail(w, err, "failed to import members")
		return
	}
	writeOK(w, map[string]interface{}{"added": added})
}
