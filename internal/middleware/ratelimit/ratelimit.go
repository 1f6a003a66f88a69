package rateLimit

import (
	"net/http"
	"time"

	httprate "github.com/go-chi/httprate"
)

func Signup() func(http.Handler) http.Handler {
	return limitByIP(5, time.Hour)
}

func Login() func(http.Handler) http.Handler {
	return limitByIP(10, 5*time.Minute)
}

func Device() func(http.Handler) http.Handler {
	return limitByIP(30, 10*time.Minute)
}

func Media() func(http.Handler) http.Handler {
	return limitByIP(60, 10*time.Minute)
}

func limitByIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window)
}
