package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	jwtutil "guardian-control/backend/app/jwt"
)

type ctxKey int

const ClaimsKey ctxKey = 1

type Auth struct {
	Signer *jwtutil.Signer
	// ServiceKey authenticates service-internal endpoints.
	ServiceKey string
}

func bearer(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authz, "Bearer "), true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"missing or invalid credential"}`))
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"insufficient rights"}`))
}

// RequireUser admits parent or admin bearer tokens.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return a.require(next, jwtutil.RoleParent, jwtutil.RoleAdmin)
}

// RequireAdmin admits admin bearer tokens only.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return a.require(next, jwtutil.RoleAdmin)
}

// RequireDevice admits device tokens; the handler binds the token's device to
// the resource it touches.
func (a *Auth) RequireDevice(next http.Handler) http.Handler {
	return a.require(next, jwtutil.RoleDevice)
}

func (a *Auth) require(next http.Handler, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r)
		if !ok {
			unauthorized(w)
			return
		}
		claims, err := a.Signer.Parse(token)
		if err != nil {
			unauthorized(w)
			return
		}
		allowed := false
		for _, role := range roles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			forbidden(w)
			return
		}
		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireService guards service-internal endpoints with the shared key.
func (a *Auth) RequireService(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r)
		if !ok || a.ServiceKey == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(a.ServiceKey)) != 1 {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
