package streamurl

import (
	"log/slog"
	"net/http"

	resp "pairing_service/internal/lib/api/response"
	"pairing_service/internal/middleware/authn"

	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	DeviceID  string `json:"deviceId"`
	StreamURL string `json:"streamUrl"`
}

// New serves the legacy non-WebRTC variant: a static stream URL for the
// bound device instead of a media session token.
func New(
	log *slog.Logger,
	streamURL string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := authn.FromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("invalid token"))

			return
		}

		if !acc.HasDevice() {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("no device registered"))

			return
		}

		render.JSON(w, r, Response{
			Response:  resp.OK(),
			DeviceID:  acc.DeviceID,
			StreamURL: streamURL,
		})
	}
}
