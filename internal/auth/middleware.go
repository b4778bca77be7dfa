// Package auth provides HTTP authentication middleware for the SSE transport.
package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/reviewflow/differential-mcp/internal/config"
)

// checker reports whether a request carries valid credentials. The challenge
// header, if non-empty, is sent on rejected requests.
type checker struct {
	allow     func(r *http.Request) bool
	challenge string
}

// excludedPaths bypass authentication (e.g., health checks)
var excludedPaths = map[string]bool{
	"/health": true,
}

// NewMiddleware creates an authentication middleware based on settings.
// Requests to excluded paths pass through regardless of credentials.
func NewMiddleware(settings config.AuthSettings) (func(http.Handler) http.Handler, error) {
	switch settings.Type {
	case config.AuthTypeNone, "":
		return func(next http.Handler) http.Handler {
			return next
		}, nil
	case config.AuthTypeBasic:
		if settings.Basic.Username == "" || settings.Basic.Password == "" {
			return nil, fmt.Errorf("basic auth requires non-empty username and password")
		}
		return guard(basicChecker(settings.Basic)), nil
	case config.AuthTypeAPIKey:
		if len(settings.APIKeys) == 0 {
			return nil, fmt.Errorf("apikey auth requires at least one API key")
		}
		return guard(apiKeyChecker(settings.APIKeys)), nil
	default:
		return nil, fmt.Errorf("unknown auth type: %s", settings.Type)
	}
}

// guard builds the middleware around a checker, handling path exclusions and
// the rejection response in one place.
func guard(c checker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if excludedPaths[r.URL.Path] || c.allow(r) {
				next.ServeHTTP(w, r)
				return
			}
			if c.challenge != "" {
				w.Header().Set("WWW-Authenticate", c.challenge)
			}
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		})
	}
}

func basicChecker(settings config.BasicAuthSettings) checker {
	return checker{
		challenge: `Basic realm="Restricted"`,
		allow: func(r *http.Request) bool {
			user, pass, ok := r.BasicAuth()
			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(settings.Username)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(settings.Password)) == 1
			return ok && userMatch && passMatch
		},
	}
}

func apiKeyChecker(apiKeys []string) checker {
	return checker{
		allow: func(r *http.Request) bool {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				return false
			}
			for _, validKey := range apiKeys {
				if subtle.ConstantTimeCompare([]byte(key), []byte(validKey)) == 1 {
					return true
				}
			}
			return false
		},
	}
}
