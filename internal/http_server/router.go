package httpserver

import (
	"log/slog"
	"net/http"

	"pairing_service/internal/auth"
	"pairing_service/internal/http_server/handlers/device"
	"pairing_service/internal/http_server/handlers/login"
	"pairing_service/internal/http_server/handlers/mediainfo"
	"pairing_service/internal/http_server/handlers/signup"
	"pairing_service/internal/http_server/handlers/streamurl"
	"pairing_service/internal/media"
	"pairing_service/internal/middleware/authn"
	rateLimit "pairing_service/internal/middleware/ratelimit"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	Log             *slog.Logger
	Auth            *auth.Auth
	MediaIssuer     *media.Issuer
	LegacyStreamURL string
	MetricsHandler  http.Handler
}

func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	validate := validator.New()
	requireAuth := authn.New(deps.Log, deps.Auth)

	r.With(rateLimit.Signup()).Post("/signup",
		signup.New(deps.Log, validate, deps.Auth),
	)
	r.With(rateLimit.Login()).Post("/login",
		login.New(deps.Log, validate, deps.Auth),
	)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.With(rateLimit.Device()).Post("/device/register",
			device.New(deps.Log, validate, deps.Auth),
		)
		r.With(rateLimit.Media()).Get("/livekit-info",
			mediainfo.New(deps.Log, deps.MediaIssuer),
		)
		r.With(rateLimit.Media()).Get("/stream-url",
			streamurl.New(deps.Log, deps.LegacyStreamURL),
		)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pairing service is running"))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	return r
}
