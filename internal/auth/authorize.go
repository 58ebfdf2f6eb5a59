package auth

import (
	"log/slog"
	"net/http"
)

// RoleAuthorization gates routes on the caller's role. The manager dashboard
// is the only privileged surface; everything else needs only a verified
// identity.
type RoleAuthorization struct {
	logger *slog.Logger
}

func NewRoleAuthorization(logger *slog.Logger) *RoleAuthorization {
	return &RoleAuthorization{logger: logger}
}

func (ra *RoleAuthorization) RequireManager() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.IsManager() {
				ra.logger.WarnContext(r.Context(), "access denied: manager role required",
					"user_id", user.ID,
					"role", user.Role)
				http.Error(w, "Forbidden: manager role required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
