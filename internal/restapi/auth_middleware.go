package restapi

import (
	"context"
	"net/http"
	"strings"

	"macrotrack.app/internal/auth"
)

type claimsKey struct{}

// requireUser rejects requests without a valid bearer token and stores the token claims
// in the request context.
func (api *RestAPI) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			api.unauthorizedResponse(w, r, "missing bearer token")
			return
		}

		claims, err := api.Tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			api.unauthorizedResponse(w, r, "invalid or expired token")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	}
}

// userIDFromContext returns the id of the authenticated user. It is only valid inside
// handlers wrapped by requireUser.
func userIDFromContext(ctx context.Context) int64 {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	if !ok {
		return 0
	}
	return claims.UserID
}
