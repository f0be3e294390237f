package session

import (
	"context"
	"net/http"
)

type contextKey struct{}

// Username returns the logged-in username from the request context,
// or "" when the request carries no valid session.
func Username(ctx context.Context) string {
	u, _ := ctx.Value(contextKey{}).(string)
	return u
}

// Middleware resolves the session cookie and stores the username in the
// request context. Lookup failures are treated as "not logged in".
func Middleware(store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(CookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := store.Get(r.Context(), c.Value)
			if err != nil || sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, sess.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin redirects to the login page when the request has no
// logged-in user.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Username(r.Context()) == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
