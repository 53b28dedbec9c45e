package api

import "net/http"

// APIKeyHeader is the request header carrying the dashboard API key.
const APIKeyHeader = "X-Api-Key"

// APIKeyMiddleware enforces API key authentication on every request.
//
// Behaviour:
//   - If mode != "apikey" or key == "", all requests are allowed
//     (pass-through).
//   - Otherwise the middleware compares the X-Api-Key header to key.
//     A missing, empty, or incorrect key returns 401 with a JSON error.
func APIKeyMiddleware(mode, key string, next http.Handler) http.Handler {
	if mode != "apikey" || key == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(APIKeyHeader) != key {
			jsonErr(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}
