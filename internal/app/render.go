package app

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	tasksrepo "github.com/alexploopy/todo-list/internal/pkg/tasks"
	"github.com/alexploopy/todo-list/internal/pkg/users"
)

//go:embed templates/*.html
var templateFS embed.FS

var views = parseViews("index", "tasks", "login", "register")

func parseViews(names ...string) map[string]*template.Template {
	res := make(map[string]*template.Template, len(names))
	for _, name := range names {
		res[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return res
}

type pageData struct {
	User     *users.User
	Error    string
	Username string

	Tasks          []*tasksrepo.Task
	Active         []*tasksrepo.Task
	Completed      []*tasksrepo.Task
	ActiveCount    int
	CompletedCount int
	Priorities     []tasksrepo.Priority
}

func (g *TodoApp) render(w http.ResponseWriter, status int, name string, data pageData) {
	view, ok := views[name]
	if !ok {
		http.Error(w, fmt.Sprintf("no view %q", name), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := view.ExecuteTemplate(&buf, "layout", data); err != nil {
		g.logger.Error("can't render view", "view", name, "err", err)
		http.Error(w, "can't render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
