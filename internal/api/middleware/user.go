package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/cadell/conjugo-api/internal/api/shared"
)

// UserIDHeader carries the caller's identity. The service runs behind a
// gateway that authenticates requests and forwards the resolved user ID.
const UserIDHeader = "X-User-ID"

// UserIDMiddleware extracts the user ID header into the request context.
// The header is optional: anonymous requests pass through with no user ID,
// and each handler decides whether it requires one. A present but malformed
// header is rejected.
func UserIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID header")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
