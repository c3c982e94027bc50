package handlers

import (
	"errors"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/kardemumma/internal/app"
)

func (a *API) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &payload); err != nil {
		fail(w, err, "failed to read login request")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}

	account, err := a.service.Accounts.Authenticate(payload.Username, payload.Password)
	if errors.Is(err, app.ErrBadCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		fail(w, err, "failed to authenticate")
		return
	}

	token, err := a.service.Auth.Issue(account.Username, account.Role)
	if err != nil {
		fail(w, err, "failed to issue token")
		return
	}

	logger.Info.Printf("Login: %s (%s)", account.Username, account.Role)
	writeOK(w, map[string]interface{}{
		"token":      token,
		"mustChange": account.MustChange,
	})
}

func (a *API) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	writeOK(w, map[string]interface{}{
		"user": map[string]string{
			"username": claims.Username,
			"role":     claims.Role,
		},
	})
}

func (a *API) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeBody(r, &payload); err != nil {
		fail(w, err, "failed to read request")
		return
	}
	if payload.OldPassword == "" || payload.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "oldPassword and newPassword required")
		return
	}

	claims := claimsFrom(r)
	err := a.service.Accounts.ChangePassword(claims.Username, payload.OldPassword, payload.NewPassword)
	if errors.Is(err, app.ErrBadCredentials) {
		writeError(w, http.StatusUnauthorized, "old password incorrect")
		return
	}
	if err != nil {
		fail(w, err, "failed to change password")
		return
	}

	writeOK(w, nil)
}
