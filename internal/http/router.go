package http

import (
	"net/http"
	"strconv"
	"strings"
)

// RouterConfig assembles the planner's endpoints. RequireSession wraps every
// route except login, registration, health, and metrics; Middleware wraps
// the whole router, outermost first.
type RouterConfig struct {
	Auth           *AuthHandler
	Events         *EventHandler
	Tasks          *TaskHandler
	Users          *UserHandler
	Dashboard      *DashboardHandler
	Metrics        http.Handler
	RequireSession func(http.Handler) http.Handler
	Middleware     []func(http.Handler) http.Handler
}

// NewRouter builds the HTTP handler tree.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protect := cfg.RequireSession
	if protect == nil {
		protect = func(next http.Handler) http.Handler { return next }
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return protect(h)
	}

	if cfg.Auth != nil {
		mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Login(w, r)
		})
		mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Register(w, r)
		})
		mux.Handle("/logout", protected(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Logout(w, r)
		}))
	}

	if cfg.Events != nil {
		mux.Handle("/events", protected(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Events.List(w, r)
			case http.MethodPost:
				cfg.Events.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		}))
		mux.Handle("/events/", protected(func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/events/")
			idPart, action, _ := strings.Cut(rest, "/")
			eventID, err := strconv.ParseInt(idPart, 10, 64)
			if err != nil || eventID <= 0 {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithEventID(r.Context(), eventID))

			switch action {
			case "":
				switch r.Method {
				case http.MethodGet:
					cfg.Events.Get(w, r)
				case http.MethodPut:
					cfg.Events.Update(w, r)
				case http.MethodDelete:
					cfg.Events.Delete(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
				}
			case "move":
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				cfg.Events.Move(w, r)
			default:
				http.NotFound(w, r)
			}
		}))
	}

	if cfg.Tasks != nil {
		mux.Handle("/tasks", protected(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Tasks.List(w, r)
			case http.MethodPost:
				cfg.Tasks.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		}))
		mux.Handle("/tasks/", protected(func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/tasks/")
			idPart, action, _ := strings.Cut(rest, "/")
			taskID, err := strconv.ParseInt(idPart, 10, 64)
			if err != nil || taskID <= 0 {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithTaskID(r.Context(), taskID))

			switch action {
			case "":
				switch r.Method {
				case http.MethodGet:
					cfg.Tasks.Get(w, r)
				case http.MethodPut:
					cfg.Tasks.Update(w, r)
				case http.MethodDelete:
					cfg.Tasks.Delete(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
				}
			case "state":
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				cfg.Tasks.SetState(w, r)
			default:
				http.NotFound(w, r)
			}
		}))
	}

	if cfg.Users != nil {
		mux.Handle("/users", protected(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Users.List(w, r)
			case http.MethodPost:
				cfg.Users.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		}))
		mux.Handle("/users/", protected(func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/users/")
			idPart, action, _ := strings.Cut(rest, "/")
			userID, err := strconv.ParseInt(idPart, 10, 64)
			if err != nil || userID <= 0 {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithUserID(r.Context(), userID))

			switch action {
			case "":
				switch r.Method {
				case http.MethodPut:
					cfg.Users.Rename(w, r)
				case http.MethodDelete:
					cfg.Users.Delete(w, r)
				default:
					methodNotAllowed(w, http.MethodPut, http.MethodDelete)
				}
			case "session":
				if r.Method != http.MethodDelete {
					methodNotAllowed(w, http.MethodDelete)
					return
				}
				if cfg.Auth == nil {
					http.NotFound(w, r)
					return
				}
				cfg.Auth.TerminateSession(w, r)
			default:
				http.NotFound(w, r)
			}
		}))
	}

	if cfg.Dashboard != nil {
		mux.Handle("/dashboard", protected(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Dashboard.Summary(w, r)
		}))
		mux.Handle("/calendar/feed", protected(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Dashboard.CalendarFeed(w, r)
		}))
		mux.Handle("/admin/purge", protected(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Dashboard.Purge(w, r)
		}))
	}

	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
