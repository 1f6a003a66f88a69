package authn

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	resp "pairing_service/internal/lib/api/response"
	sl "pairing_service/internal/lib/logger"
	"pairing_service/internal/models"

	"github.com/go-chi/render"
)

type ctxKey struct{}

// Authenticator resolves a bearer token to its account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Account, error)
}

// New returns middleware that requires a valid identity token and stores
// the resolved account in the request context. The caller gets one generic
// message regardless of cause; the cause is only logged.
func New(log *slog.Logger, a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				unauthorized(w, r)
				return
			}

			acc, err := a.Authenticate(r.Context(), token)
			if err != nil {
				log.Warn("authentication failed", sl.Err(err))
				unauthorized(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), acc)))
		})
	}
}

// NewContext stores the account in ctx.
func NewContext(ctx context.Context, acc models.Account) context.Context {
	return context.WithValue(ctx, ctxKey{}, acc)
}

// FromContext returns the account stored by the middleware.
func FromContext(ctx context.Context) (models.Account, bool) {
	acc, ok := ctx.Value(ctxKey{}).(models.Account)
	return acc, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, resp.Error("invalid token"))
}
