package util

import (
	"net/http"
	"strings"
)

// OriginIP extracts the origin identifier uploads are attributed to.
// X-Forwarded-For wins (first hop if the proxy chain appended), then
// X-Real-IP, then a sentinel. Both headers are client-controllable, so
// anything keyed on this is an abuse deterrent, not a security boundary.
func OriginIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	return "unknown"
}
