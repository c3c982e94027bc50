package handlers

import (
	"net/http"
	"strings"
)

// HandleSearch is the one unauthenticated data endpoint: course lookup by code
// substring, with sheets and slot occupancy bundled in.
func (a *API) HandleSearch(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		writeError(w, http.StatusBadRequest, "code query parameter required")
		return
	}

	results, err := a.service.Schedule.SearchCourses(code)
	if err != nil {
		fail(w, err, "failed to search courses")
		return
	}
	writeOK(w, map[string]interface{}{"results": results})
}
