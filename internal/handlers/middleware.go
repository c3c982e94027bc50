package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/kardemumma/internal/app"
	"github.com/shrimpsizemoose/kardemumma/internal/models"
)

type contextKey int

const claimsKey contextKey = iota

// requireRole authenticates the Bearer token and gates on role. With no roles
// listed any authenticated user passes; admins pass every gate. When auth is
// disabled in config, identity comes from X-Username/X-Role headers so local
// runs and tests skip the login dance.
func (a *API) requireRole(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var claims *app.Claims

		if !a.service.Config.Server.EnableAuth {
			claims = &app.Claims{
				Username: headerOr(r, "X-Username", "dev"),
				Role:     headerOr(r, "X-Role", models.RoleAdmin),
			}
		} else {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				writeError(w, http.StatusUnauthorized, "missing token")
				return
			}

			verified, err := a.service.Auth.Verify(token)
			if err != nil {
				logger.Debug.Printf("Token rejected: %v", err)
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			claims = verified
		}

		if !roleAllowed(claims.Role, roles) {
			writeError(w, http.StatusForbidden, "permission denied")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

func roleAllowed(role string, required []string) bool {
	if len(required) == 0 || role == models.RoleAdmin {
		return true
	}
	for _, want := range required {
		if role == want {
			return true
		}
	}
	return false
}

func claimsFrom(r *http.Request) *app.Claims {
	claims, _ := r.Context().Value(claimsKey).(*app.Claims)
	return claims
}

func headerOr(r *http.Request, name, fallback string) string {
	if v := r.Header.Get(name); v != "" {
		return v
	}
	return fallback
}
