package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexploopy/todo-list/internal/pkg/auth"
	"github.com/alexploopy/todo-list/internal/pkg/users"
)

func (g *TodoApp) LoginPage(w http.ResponseWriter, r *http.Request) {
	g.render(w, http.StatusOK, "login", pageData{})
}

func (g *TodoApp) SignupPage(w http.ResponseWriter, r *http.Request) {
	g.render(w, http.StatusOK, "register", pageData{})
}

func (g *TodoApp) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "can't parse form", http.StatusBadRequest)
		return
	}
	name, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if name == "" || password == "" {
		g.render(w, http.StatusBadRequest, "register", pageData{Username: name, Error: "all fields are required"})
		return
	}

	savedUser, err := g.credentials.CreateUser(ctx, name, password)
	if err != nil {
		if errors.Is(err, users.ErrDuplicateUsername) {
			g.render(w, http.StatusConflict, "register", pageData{Username: name, Error: "username already taken"})
			return
		}
		g.logger.Error("can't create user", "username", name, "err", err)
		g.render(w, http.StatusInternalServerError, "register", pageData{Username: name, Error: "registration failed"})
		return
	}
	g.logger.Info("user registered", "userID", savedUser.ID)

	g.signIn(ctx, w, r, savedUser, "register")
}

func (g *TodoApp) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "can't parse form", http.StatusBadRequest)
		return
	}
	name, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if name == "" || password == "" {
		g.render(w, http.StatusBadRequest, "login", pageData{Username: name, Error: "username and password required"})
		return
	}

	savedUser, err := g.credentials.ValidatePassword(ctx, name, password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			g.render(w, http.StatusUnauthorized, "login", pageData{Username: name, Error: "invalid credentials"})
			return
		}
		g.logger.Error("can't validate credentials", "username", name, "err", err)
		g.render(w, http.StatusInternalServerError, "login", pageData{Username: name, Error: "authentication failed"})
		return
	}

	g.signIn(ctx, w, r, savedUser, "login")
}

func (g *TodoApp) signIn(ctx context.Context, w http.ResponseWriter, r *http.Request, user *users.User, view string) {
	if err := g.gateway.IssueCookie(ctx, w, auth.User{ID: user.ID, Name: user.Name}); err != nil {
		g.logger.Error("can't issue session", "userID", user.ID, "err", err)
		g.render(w, http.StatusInternalServerError, view, pageData{Username: user.Name, Error: "can't start session, please try again"})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout revokes the current session, if any, and returns to the home page.
func (g *TodoApp) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	if err := g.gateway.ClearCookie(ctx, w, r); err != nil {
		g.logger.Warn("can't revoke session", "err", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
