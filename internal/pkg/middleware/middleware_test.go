package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/alexploopy/todo-list/internal/pkg/auth"
	"github.com/alexploopy/todo-list/internal/pkg/users"
)

type fakeGateway struct {
	user auth.User
	ok   bool
}

func (f fakeGateway) ResolveIdentity(context.Context, *http.Request) (auth.User, bool) {
	return f.user, f.ok
}

type fakeFinder struct {
	users map[string]*users.User
	err   error
}

func (f fakeFinder) FindByID(_ context.Context, id string) (*users.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, users.ErrNoUser
	}
	return u, nil
}

func TestAuth(t *testing.T) {
	alice := &users.User{ID: "u1", Name: "alice"}
	finder := fakeFinder{users: map[string]*users.User{"u1": alice}}

	tests := []struct {
		name       string
		gateway    fakeGateway
		finder     fakeFinder
		method     string
		wantStatus int
		wantUser   bool
	}{
		{"signed in", fakeGateway{auth.User{ID: "u1"}, true}, finder, http.MethodGet, http.StatusOK, true},
		{"anonymous get", fakeGateway{}, finder, http.MethodGet, http.StatusFound, false},
		{"anonymous post", fakeGateway{}, finder, http.MethodPost, http.StatusSeeOther, false},
		{"deleted user", fakeGateway{auth.User{ID: "gone"}, true}, finder, http.MethodGet, http.StatusFound, false},
		{"storage error", fakeGateway{auth.User{ID: "u1"}, true}, fakeFinder{err: errors.New("down")}, http.MethodGet, http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := Auth(tt.gateway, tt.finder, func(w http.ResponseWriter, r *http.Request, user *users.User) {
				called = true
				if user.ID != alice.ID {
					t.Errorf("user: got %+v", user)
				}
			})

			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(tt.method, "/tasks", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantUser {
				t.Errorf("handler called: got %v, want %v", called, tt.wantUser)
			}
			if rec.Code == http.StatusFound || rec.Code == http.StatusSeeOther {
				if loc := rec.Header().Get("Location"); loc != LoginPath {
					t.Errorf("Location: got %q, want %q", loc, LoginPath)
				}
			}
		})
	}
}

func TestGuest(t *testing.T) {
	page := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }

	rec := httptest.NewRecorder()
	Guest(fakeGateway{}, page)(rec, httptest.NewRequest(http.MethodGet, LoginPath, nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("anonymous: got %d, want page", rec.Code)
	}

	rec = httptest.NewRecorder()
	Guest(fakeGateway{auth.User{ID: "u1"}, true}, page)(rec, httptest.NewRequest(http.MethodGet, LoginPath, nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Errorf("signed in: got %d to %q, want 302 to /", rec.Code, rec.Header().Get("Location"))
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel, Formatter: log.LogfmtFormatter})

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/tasks", nil))

	out := buf.String()
	for _, want := range []string{"method=POST", "path=/tasks", "status=201"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}
