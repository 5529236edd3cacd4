package app

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/alexploopy/todo-list/internal/pkg/middleware"
	tasksrepo "github.com/alexploopy/todo-list/internal/pkg/tasks"
	"github.com/alexploopy/todo-list/internal/pkg/users"
)

var priorities = []tasksrepo.Priority{tasksrepo.PriorityHigh, tasksrepo.PriorityMedium, tasksrepo.PriorityLow}

type pageFunc func(w http.ResponseWriter, r *http.Request, user *users.User, status int, errMsg string)

// Index shows the signed-in user's tasks, or a welcome page.
func (g *TodoApp) Index(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	identity, ok := g.gateway.ResolveIdentity(ctx, r)
	if !ok {
		g.render(w, http.StatusOK, "index", pageData{})
		return
	}

	user, err := g.credentials.FindByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, users.ErrNoUser) {
			g.render(w, http.StatusOK, "index", pageData{})
			return
		}
		g.logger.Error("can't load user", "userID", identity.ID, "err", err)
		http.Error(w, "can't load user", http.StatusInternalServerError)
		return
	}

	g.indexPage(w, r, user, http.StatusOK, "")
}

func (g *TodoApp) indexPage(w http.ResponseWriter, r *http.Request, user *users.User, status int, errMsg string) {
	list, ok := g.listTasks(w, r, user)
	if !ok {
		return
	}
	tasksrepo.SortForDisplay(list)
	active, completed := tasksrepo.Split(list)

	g.render(w, status, "index", pageData{
		User:           user,
		Error:          errMsg,
		Tasks:          list,
		ActiveCount:    len(active),
		CompletedCount: len(completed),
	})
}

func (g *TodoApp) ListTasks(w http.ResponseWriter, r *http.Request, user *users.User) {
	g.tasksPage(w, r, user, http.StatusOK, "")
}

func (g *TodoApp) tasksPage(w http.ResponseWriter, r *http.Request, user *users.User, status int, errMsg string) {
	list, ok := g.listTasks(w, r, user)
	if !ok {
		return
	}
	tasksrepo.SortForDisplay(list)
	active, completed := tasksrepo.Split(list)

	g.render(w, status, "tasks", pageData{
		User:           user,
		Error:          errMsg,
		Active:         active,
		Completed:      completed,
		ActiveCount:    len(active),
		CompletedCount: len(completed),
		Priorities:     priorities,
	})
}

func (g *TodoApp) listTasks(w http.ResponseWriter, r *http.Request, user *users.User) ([]*tasksrepo.Task, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	list, err := g.tasks.ListTasksForUser(ctx, user.ID)
	if err != nil {
		g.logger.Error("can't list tasks", "userID", user.ID, "err", err)
		http.Error(w, "can't get tasks", http.StatusInternalServerError)
		return nil, false
	}
	return list, true
}

// actions handles the form posts of one page. logout works without a
// session; every other action requires one. After a successful action the
// client is redirected back to redirectTo.
func (g *TodoApp) actions(redirectTo string, page pageFunc, allowed ...string) http.HandlerFunc {
	isAllowed := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		isAllowed[a] = true
	}

	authed := func(w http.ResponseWriter, r *http.Request, user *users.User) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		action := r.PostForm.Get("_action")
		var err error
		if !isAllowed[action] {
			err = &ValidationError{Field: "_action", Msg: "unknown action"}
		} else {
			err = g.applyAction(ctx, user, action, r.PostForm)
		}

		var verr *ValidationError
		switch {
		case err == nil:
			http.Redirect(w, r, redirectTo, http.StatusSeeOther)
		case errors.As(err, &verr):
			page(w, r, user, http.StatusBadRequest, verr.Error())
		default:
			g.logger.Error("action failed", "action", action, "userID", user.ID, "err", err)
			page(w, r, user, http.StatusInternalServerError, "something went wrong, please try again")
		}
	}
	withUser := middleware.Auth(g.gateway, g.credentials, authed)

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "can't parse form", http.StatusBadRequest)
			return
		}

		if r.PostForm.Get("_action") == "logout" && isAllowed["logout"] {
			g.Logout(w, r)
			return
		}
		withUser(w, r)
	}
}

// applyAction mutates the user's tasks for one form action. Updates and
// deletes of unknown tasks are silently ignored.
func (g *TodoApp) applyAction(ctx context.Context, user *users.User, action string, form url.Values) error {
	switch action {
	case "new":
		title := form.Get("title")
		if strings.TrimSpace(title) == "" {
			return nil
		}
		priority, err := tasksrepo.ParsePriority(form.Get("priority"))
		if err != nil {
			return &ValidationError{Field: "priority", Msg: "must be high, medium or low"}
		}
		_, err = g.tasks.AddTask(ctx, user.ID, title, priority)
		return err

	case "edit":
		taskID, err := requireField(form, "taskId")
		if err != nil {
			return err
		}
		title := form.Get("updatedTitle")
		if strings.TrimSpace(title) == "" {
			return nil
		}
		patch := tasksrepo.Patch{Title: &title}
		if raw := form.Get("priority"); raw != "" {
			priority, err := tasksrepo.ParsePriority(raw)
			if err != nil {
				return &ValidationError{Field: "priority", Msg: "must be high, medium or low"}
			}
			patch.Priority = &priority
		}
		return ignoreMissing(g.tasks.UpdateTask(ctx, user.ID, taskID, patch))

	case "toggle":
		taskID, err := requireField(form, "taskId")
		if err != nil {
			return err
		}
		completed := form.Get("completed") == "true"
		return ignoreMissing(g.tasks.UpdateTask(ctx, user.ID, taskID, tasksrepo.Patch{Completed: &completed}))

	case "delete":
		taskID, err := requireField(form, "taskId")
		if err != nil {
			return err
		}
		return g.tasks.DeleteTask(ctx, user.ID, taskID)
	}

	return &ValidationError{Field: "_action", Msg: "unknown action"}
}

func requireField(form url.Values, name string) (string, error) {
	v := form.Get(name)
	if v == "" {
		return "", &ValidationError{Field: name, Msg: "is required"}
	}
	return v, nil
}

func ignoreMissing(_ *tasksrepo.Task, err error) error {
	if errors.Is(err, tasksrepo.ErrNoTask) {
		return nil
	}
	return err
}
