package auth

import (
	"log/slog"
	"net/http"
)

// Gate applies a resource's PermissionTable as chi middleware. Denials
// short-circuit before any handler or repository code runs.
type Gate struct {
	logger *slog.Logger
}

func NewGate(logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{logger: logger}
}

func (g *Gate) Require(table PermissionTable, operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := UserFromContext(r.Context())

			if table.Allows(principal, operation) {
				next.ServeHTTP(w, r)
				return
			}

			if principal == nil {
				g.logger.Warn("access denied: anonymous caller on restricted operation",
					"operation", operation)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			g.logger.Warn("access denied: insufficient role",
				"operation", operation,
				"user_id", principal.ID,
				"user_type", principal.UserType)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
		})
	}
}
