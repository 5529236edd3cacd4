package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexploopy/todo-list/internal/pkg/auth"
	"github.com/alexploopy/todo-list/internal/pkg/users"
)

const LoginPath = "/auth/login"

type HandlerWithUser func(w http.ResponseWriter, r *http.Request, user *users.User)

type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, r *http.Request) (auth.User, bool)
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*users.User, error)
}

// Auth passes the signed-in user to handler. Requests without a live
// session, or whose user no longer exists, are sent to LoginPath.
func Auth(gateway IdentityResolver, finder UserFinder, handler HandlerWithUser) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		identity, ok := gateway.ResolveIdentity(ctx, r)
		if !ok {
			redirect(w, r, LoginPath)
			return
		}

		dbUser, err := finder.FindByID(ctx, identity.ID)
		if err != nil {
			if errors.Is(err, users.ErrNoUser) {
				redirect(w, r, LoginPath)
			} else {
				http.Error(w, "can't load user", http.StatusInternalServerError)
			}
			return
		}

		handler(w, r, dbUser)
	})
}

// redirect answers GET with 302 and everything else with 303 so the
// browser follows up with a GET.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	code := http.StatusSeeOther
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		code = http.StatusFound
	}
	http.Redirect(w, r, to, code)
}
