package request

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kotoba-study/kotoba-api/internal/models"
)

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// DateParam reads a calendar-date query parameter, validating its format.
func DateParam(r *http.Request, name string) (string, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return "", fmt.Errorf("%s query parameter is required", name)
	}
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return "", fmt.Errorf("%s must be a %s date", name, models.DateLayout)
	}
	return value, nil
}

// BoolParam reads an optional boolean query parameter; absent means false.
func BoolParam(r *http.Request, name string) bool {
	switch strings.ToLower(r.URL.Query().Get(name)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
