package mediainfo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "pairing_service/internal/lib/api/response"
	sl "pairing_service/internal/lib/logger"
	"pairing_service/internal/media"
	"pairing_service/internal/middleware/authn"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	RoomName string `json:"roomName"`
	WSURL    string `json:"wsUrl"`
	Token    string `json:"token"`
}

// New hands the authenticated viewer a fresh media session: the room
// derived from the bound device, the provider endpoint, and a short-lived
// subscribe-only join token.
func New(
	log *slog.Logger,
	issuer *media.Issuer,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.mediainfo.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		acc, ok := authn.FromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("invalid token"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sess, err := issuer.IssueSession(ctx, acc)
		if err != nil {
			if errors.Is(err, media.ErrNoBoundDevice) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("no device registered"))

				return
			}

			log.Error("failed to issue media session", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("failed to create media session"))

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			RoomName: sess.RoomName,
			WSURL:    sess.WSURL,
			Token:    sess.Token,
		})
	}
}
