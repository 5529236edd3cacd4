package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-redis/redis/v9"
	"github.com/gorilla/mux"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/alexploopy/todo-list/internal/pkg/auth"
	"github.com/alexploopy/todo-list/internal/pkg/config"
	"github.com/alexploopy/todo-list/internal/pkg/middleware"
	"github.com/alexploopy/todo-list/internal/pkg/session"
	tasksrepo "github.com/alexploopy/todo-list/internal/pkg/tasks"
	tasksdb "github.com/alexploopy/todo-list/internal/pkg/tasks/db"
	tasksmem "github.com/alexploopy/todo-list/internal/pkg/tasks/memory"
	"github.com/alexploopy/todo-list/internal/pkg/users"
	usersdb "github.com/alexploopy/todo-list/internal/pkg/users/db"
	usersmem "github.com/alexploopy/todo-list/internal/pkg/users/memory"
)

const timeout = time.Second

type TodoApp struct {
	tasks       tasksrepo.Tasker
	credentials *users.Credentials
	sessions    session.Sessioner
	gateway     *session.Gateway
	logger      *log.Logger
	router      *mux.Router
}

func (g *TodoApp) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.router.ServeHTTP(w, r)
}

// NewTodoApp connects the backends named in cfg. PostgreSQL and Redis are
// used when their addresses are set, in-memory stores otherwise.
func NewTodoApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*TodoApp, error) {
	a, err := auth.NewAuth([]byte(cfg.Session.Secret))
	if err != nil {
		return nil, err
	}

	var (
		tasker tasksrepo.Tasker
		userer users.Userer
	)
	if cfg.Storage.PostgresURL != "" {
		db, err := createPostgresDB(ctx, cfg.Storage.PostgresURL)
		if err != nil {
			return nil, err
		}

		tasksDB := tasksdb.NewTasker(db)
		if err := tasksDB.CreateSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		usersDB := usersdb.NewUserer(db)
		if err := usersDB.CreateSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		tasker, userer = tasksDB, usersDB
		logger.Info("using postgres storage")
	} else {
		tasker, userer = tasksmem.NewTasker(), usersmem.NewUserer()
		logger.Warn("using in-memory storage, data is lost on restart")
	}

	var sessions session.Sessioner
	if cfg.Storage.RedisAddr != "" {
		redisDB, err := createRedisDB(ctx, cfg.Storage)
		if err != nil {
			tasker.Close()
			return nil, err
		}
		sessions = session.NewManager(redisDB)
		logger.Info("using redis session registry", "addr", cfg.Storage.RedisAddr)
	} else {
		sessions = session.NewMemoryManager()
	}

	credentials := users.NewCredentials(userer, auth.NewBcryptHasher(cfg.Session.BcryptCost))
	gateway := session.NewGateway(a, sessions, cfg.Session.TTL, cfg.Production())

	return createTodoApp(tasker, credentials, sessions, gateway, logger), nil
}

func createRedisDB(ctx context.Context, cfg config.StorageConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("can't connect to redis: %w", err)
	}

	return client, nil
}

func createPostgresDB(ctx context.Context, dbURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("cant connect to postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("cant ping postgres: %w", err)
	}

	return db, nil
}

func createTodoApp(tasks tasksrepo.Tasker, credentials *users.Credentials, sessions session.Sessioner, gateway *session.Gateway, logger *log.Logger) *TodoApp {
	router := mux.NewRouter()
	todo := &TodoApp{
		tasks:       tasks,
		credentials: credentials,
		sessions:    sessions,
		gateway:     gateway,
		logger:      logger,
		router:      router,
	}

	router.Use(middleware.Logging(logger))

	router.HandleFunc("/", todo.Index).Methods("GET")
	router.HandleFunc("/", todo.actions("/", todo.indexPage, "logout", "toggle")).Methods("POST")

	router.HandleFunc("/tasks", middleware.Auth(gateway, credentials, todo.ListTasks)).Methods("GET")
	router.HandleFunc("/tasks", todo.actions("/tasks", todo.tasksPage, "logout", "toggle", "new", "edit", "delete")).Methods("POST")

	router.HandleFunc(middleware.LoginPath, middleware.Guest(gateway, todo.LoginPage)).Methods("GET")
	router.HandleFunc(middleware.LoginPath, middleware.Guest(gateway, todo.Login)).Methods("POST")

	router.HandleFunc("/auth/register", middleware.Guest(gateway, todo.SignupPage)).Methods("GET")
	router.HandleFunc("/auth/register", middleware.Guest(gateway, todo.Signup)).Methods("POST")

	router.HandleFunc("/healthz", todo.Health).Methods("GET")

	return todo
}

// Close releases every backend, returning all errors joined.
func (g *TodoApp) Close() error {
	return errors.Join(g.tasks.Close(), g.credentials.Close(), g.sessions.Close())
}

func (g *TodoApp) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	checks := map[string]func(context.Context) error{
		"tasks":    g.tasks.Ping,
		"users":    g.credentials.Ping,
		"sessions": g.sessions.Ping,
	}
	for name, ping := range checks {
		if err := ping(ctx); err != nil {
			g.logger.Error("health check failed", "backend", name, "err", err)
			http.Error(w, fmt.Sprintf("%s unavailable", name), http.StatusServiceUnavailable)
			return
		}
	}
	fmt.Fprintln(w, "ok")
}
