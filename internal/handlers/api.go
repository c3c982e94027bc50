// Package handlers maps one HTTP route per engine operation. Handlers only
// decode, call an engine, and encode; every business rule lives behind the
// engines.
package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/kardemumma/internal/app"
	"github.com/shrimpsizemoose/kardemumma/internal/models"
)

type API struct {
	service *app.Service
}

func NewAPI(service *app.Service) *API {
	return &API{service: service}
}

// Router wires every route with its role gate. Management routes need the ta
// role (admins pass everywhere), self-service needs any session, /api/admin
// needs admin.
func (a *API) Router() *http.ServeMux {
	mux := http.NewServeMux()

	ta := func(h http.HandlerFunc) http.HandlerFunc {
		return a.requireRole(h, models.RoleTA)
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return a.requireRole(h, models.RoleAdmin)
	}
	anyone := func(h http.HandlerFunc) http.HandlerFunc {
		return a.requireRole(h)
	}

	mux.HandleFunc("POST /api/open/login", a.instrument(a.HandleLogin))
	mux.HandleFunc("GET /api/open/search", a.instrument(a.HandleSearch))

	mux.HandleFunc("GET /api/secure/me", a.instrument(anyone(a.HandleMe)))
	mux.HandleFunc("POST /api/secure/change-password", a.instrument(anyone(a.HandleChangePassword)))

	mux.HandleFunc("POST /api/admin/reset-password", a.instrument(admin(a.HandleResetPassword)))
	mux.HandleFunc("POST /api/admin/add-ta", a.instrument(admin(a.HandleAddTA)))
	mux.HandleFunc("POST /api/admin/remove-ta", a.instrument(admin(a.HandleRemoveTA)))

	mux.HandleFunc("GET /api/secure/courses", a.instrument(ta(a.HandleListCourses)))
	mux.HandleFunc("POST /api/secure/courses", a.instrument(ta(a.HandleCreateCourse)))
	mux.HandleFunc("PUT /api/secure/courses/{id}", a.instrument(ta(a.HandleUpdateCourse)))
	mux.HandleFunc("DELETE /api/secure/courses/{id}", a.instrument(ta(a.HandleDeleteCourse)))

	mux.HandleFunc("GET /api/secure/members/{courseId}", a.instrument(ta(a.HandleListMembers)))
	mux.HandleFunc("POST /api/secure/members/{courseId}", a.instrument(ta(a.HandleAddMember)))
	mux.HandleFunc("POST /api/secure/members/{courseId}/bulk", a.instrument(ta(a.HandleBulkAddMembers)))
	mux.HandleFunc("DELETE /api/secure/members/{courseId}/{memberId}", a.instrument(ta(a.HandleDeleteMember)))

	mux.HandleFunc("GET /api/secure/sheets/{courseId}", a.instrument(ta(a.HandleListSheets)))
	mux.HandleFunc("POST /api/secure/sheets/{courseId}", a.instrument(ta(a.HandleAddSheet)))
	mux.HandleFunc("PUT /api/secure/sheets/one/{sheetId}", a.instrument(ta(a.HandleUpdateSheet)))
	mux.HandleFunc("DELETE /api/secure/sheets/one/{sheetId}", a.instrument(ta(a.HandleDeleteSheet)))

	mux.HandleFunc("GET /api/secure/slots/{sheetId}", a.instrument(ta(a.HandleListSlots)))
	mux.HandleFunc("POST /api/secure/slots/{sheetId}", a.instrument(ta(a.HandleAddSlot)))
	mux.HandleFunc("PUT /api/secure/slots/{slotId}", a.instrument(ta(a.HandleUpdateSlot)))
	mux.HandleFunc("DELETE /api/secure/slots/{slotId}", a.instrument(ta(a.HandleDeleteSlot)))

	mux.HandleFunc("GET /api/secure/grades/current/{sheetId}", a.instrument(ta(a.HandleCurrentSlot)))
	mux.HandleFunc("GET /api/secure/grades/navigate/{slotId}", a.instrument(ta(a.HandleNavigate)))
	mux.HandleFunc("POST /api/secure/grades/{slotId}/{memberId}", a.instrument(ta(a.HandleAddOrUpdateGrade)))
	mux.HandleFunc("GET /api/secure/grades/audit/{gradeId}", a.instrument(ta(a.HandleAudit)))

	mux.HandleFunc("GET /api/secure/students/my-signups", a.instrument(anyone(a.HandleMySignups)))
	mux.HandleFunc("GET /api/secure/students/available-slots", a.instrument(anyone(a.HandleAvailableSlots)))
	mux.HandleFunc("POST /api/secure/students/signup/{slotId}", a.instrument(anyone(a.HandleSignup)))
	mux.HandleFunc("DELETE /api/secure/students/leave/{slotId}", a.instrument(anyone(a.HandleLeave)))

	return mux
}
