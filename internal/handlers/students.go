package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/kardemumma/internal/metrics"
)

func (a *API) HandleMySignups(w http.ResponseWriter, r *http.Request) {
	signups, err := a.service.Schedule.MySignups(claimsFrom(r).Username)
	if err != nil {
		fail(w, err, "failed to fetch signups")
		return
	}
	writeOK(w, map[string]interface{}{"signups": signups})
}

func (a *API) HandleAvailableSlots(w http.ResponseWriter, r *http.Request) {
	available, err := a.service.Schedule.AvailableSlots(claimsFrom(r).Username)
	if err != nil {
		fail(w, err, "failed to fetch available slots")
		return
	}
	writeOK(w, map[string]interface{}{"slots": available})
}

func (a *API) HandleSignup(w http.ResponseWriter, r *http.Request) {
	slotID, err := pathID(r, "slotId")
	if err != nil {
		fail(w, err, "invalid slot id")
		return
	}

	slot, err := a.service.Schedule.Signup(slotID, claimsFrom(r).Username)
	if err != nil {
		fail(w, err, "failed to sign up")
		return
	}

	metrics.SignupsTotal.WithLabelValues("signup").Inc()
	writeOK(w, map[string]interface{}{"slot": slot})
}

func (a *API) HandleLeave(w http.ResponseWriter, r *http.Request) {
	slotID, err := pathID(r, "slotId")
	if err != nil {
		fail(w, err, "invalid slot id")
		return
	}

	slot, err := a.service.Schedule.Leave(slotID, claimsFrom(r).Username)
	if err != nil {
		fail(w, err, "failed to leave slot")
		return
	}

	metrics.SignupsTotal.WithLabelValues("leave").Inc()
	writeOK(w, map[string]interface{}{"slot": slot})
}
