package http

import (
	"encoding/json"
	"net/http"
	"strings"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// basePrefix recovers the mount prefix of the current request so templates
// can build absolute links. Hosts typically mount the router behind
// http.StripPrefix, which rewrites r.URL.Path but leaves the request URI
// intact; the prefix is whatever the URI carries beyond the stripped path.
func basePrefix(r *http.Request, configured string) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		if !strings.HasSuffix(configured, "/") {
			configured += "/"
		}
		return configured
	}

	uriPath := r.RequestURI
	if i := strings.IndexByte(uriPath, '?'); i >= 0 {
		uriPath = uriPath[:i]
	}

	prefix := "/"
	if strings.HasSuffix(uriPath, r.URL.Path) {
		prefix = uriPath[:len(uriPath)-len(r.URL.Path)] + "/"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}
