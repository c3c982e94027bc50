package handlers

import (
	"fmt"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"
)

func (a *API) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	username, ok := a.decodeUsername(w, r)
	if !ok {
		return
	}

	resetTo, err := a.service.Accounts.ResetPassword(username)
	if err != nil {
		fail(w, err, "failed to reset password")
		return
	}

	logger.Info.Printf("Password reset for %s by %s", username, claimsFrom(r).Username)
	writeOK(w, map[string]interface{}{"resetTo": resetTo})
}

func (a *API) HandleAddTA(w http.ResponseWriter, r *http.Request) {
	username, ok := a.decodeUsername(w, r)
	if !ok {
		return
	}

	if err := a.service.Accounts.GrantTA(username); err != nil {
		fail(w, err, "failed to grant TA role")
		return
	}

	writeOK(w, map[string]interface{}{"message": fmt.Sprintf("User %s is now a TA", username)})
}

func (a *API) HandleRemoveTA(w http.ResponseWriter, r *http.Request) {
	username, ok := a.decodeUsername(w, r)
	if !ok {
		return
	}

	if err := a.service.Accounts.RevokeTA(username); err != nil {
		fail(w, err, "failed to revoke TA role")
		return
	}

	writeOK(w, map[string]interface{}{"message": fmt.Sprintf("Removed TA role from %s", username)})
}

func (a *API) decodeUsername(w http.ResponseWriter, r *http.Request) (string, bool) {
	var payload struct {
		Username string `json:"username"`
	}
	if err := decodeBody(r, &payload); err != nil {
		fail(w, err, "failed to read request")
		return "", false
	}
	if payload.Username == "" {
		writeError(w, http.StatusBadRequest, "username required")
		return "", false
	}
	return payload.Username, true
}
