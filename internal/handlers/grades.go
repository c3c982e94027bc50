package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/kardemumma/internal/metrics"
)

func (a *API) HandleCurrentSlot(w http.ResponseWriter, r *http.Request) {
	sheetID, err := pathID(r, "sheetId")
	if err != nil {
		fail(w, err, "invalid sheet id")
		return
	}

	roster, err := a.service.Grading.CurrentSlot(sheetID)
	if err != nil {
		fail(w, err, "failed to find current slot")
		return
	}
	writeOK(w, map[string]interface{}{
		"slot":    roster.Slot,
		"members": roster.Members,
	})
}

func (a *API) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	slotID, err := pathID(r, "slotId")
	if err != nil {
		fail(w, err, "invalid slot id")
		return
	}

	direction := r.URL.Query().Get("direction")
	if direction != "prev" && direction != "next" {
		writeError(w, http.StatusBadRequest, "direction must be prev or next")
		return
	}

	roster, err := a.service.Grading.Navigate(slotID, direction)
	if err != nil {
		fail(w, err, "failed to navigate slots")
		return
	}
	writeOK(w, map[string]interface{}{
		"slot":    roster.Slot,
		"members": roster.Members,
	})
}

func (a *API) HandleAddOrUpdateGrade(w http.ResponseWriter, r *http.Request) {
	slotID, err := pathID(r, "slotId")
	if err != nil {
		fail(w, err, "invalid slot id")
		return
	}
	memberID, err := pathID(r, "memberId")
	if err != nil {
		fail(w, err, "invalid member id")
		return
	}

	var payload struct {
		BaseMark *int   `json:"baseMark"`
		Bonus    int    `json:"bonus"`
		Penalty  int    `json:"penalty"`
		Comment  string `json:"comment"`
	}
	if err := decodeBody(r, &payload); err != nil {
		fail(w, err, "failed to read request")
		return
	}

	ta := claimsFrom(r).Username
	grade, audit, err := a.service.Grading.AddOrUpdateGrade(
		slotID, memberID, payload.BaseMark, payload.Bonus, payload.Penalty, payload.Comment, ta)
	if err != nil {
		fail(w, err, "failed to save grade")
		return
	}

	metrics.GradeWritesTotal.WithLabelValues(ta).Inc()
	writeOK(w, map[string]interface{}{
		"grade": grade,
		"audit": audit,
	})
}

func (a *API) HandleAudit(w http.ResponseWriter, r *http.Request) {
	gradeID, err := pathID(r, "gradeId")
	if err != nil {
		fail(w, err, "invalid grade id")
		return
	}

	audit, err := a.service.Grading.Audit(gradeID)
	if err != nil {
		fail(w, err, "failed to fetch audit history")
		return
	}
	writeOK(w, map[string]interface{}{"audit": audit})
}
