package transport

import (
	"net/http"

	utilsContext "github.com/Qguillot-pro/barstock-pro/utils/context"
	"github.com/gorilla/mux"
)

// ActorMiddleware propagates the operator identity from the X-Actor header
// onto the request context so application code can stamp records with it.
func ActorMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if actor := r.Header.Get("X-Actor"); actor != "" {
				r = r.WithContext(utilsContext.WithActor(r.Context(), actor))
			}
			next.ServeHTTP(w, r)
		})
	}
}
