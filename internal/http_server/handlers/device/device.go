package device

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pairing_service/internal/auth"
	resp "pairing_service/internal/lib/api/response"
	sl "pairing_service/internal/lib/logger"
	"pairing_service/internal/middleware/authn"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	DeviceID string `json:"deviceId" validate:"required"`
}

type Response struct {
	resp.Response
	DeviceID string `json:"deviceId"`
}

// New handles device registration for the authenticated account. The new
// device id overwrites any previous binding without confirmation.
func New(
	log *slog.Logger,
	validate *validator.Validate,
	authService *auth.Auth,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.device.New"

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

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		acc, err = authService.RegisterDevice(ctx, acc, req.DeviceID)
		if err != nil {
			if errors.Is(err, auth.ErrMissingDeviceID) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("deviceId is required"))

				return
			}

			log.Error("failed to register device", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			DeviceID: acc.DeviceID,
		})
	}
}
