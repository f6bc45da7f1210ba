package handlers

import (
	"net/http"
	"strings"
)

// unknownClient keys rate-limit state when no address header is present.
const unknownClient = "unknown"

// ClientID derives the rate-limit key for a request: the first value of
// X-Forwarded-For, else X-Real-IP, else the "unknown" sentinel. All clients
// without address headers share one bucket, which is the safe direction.
func ClientID(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		return rip
	}
	return unknownClient
}
