package middleware

import (
	"net/http"
)

// Guest keeps signed-in users off the login and register pages.
func Guest(gateway IdentityResolver, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := gateway.ResolveIdentity(r.Context(), r); ok {
			redirect(w, r, "/")
			return
		}
		handler(w, r)
	}
}
