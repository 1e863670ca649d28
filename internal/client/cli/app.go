// Package cli implements the interactive portal client: a REPL over the
// client core (session store, access guard, query cache, mutation
// coordination, entity resources).
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dimasprakoso/siakad-cli/internal/client/api"
	"github.com/dimasprakoso/siakad-cli/internal/client/config"
	"github.com/dimasprakoso/siakad-cli/internal/client/entity"
	"github.com/dimasprakoso/siakad-cli/internal/client/models"
	"github.com/dimasprakoso/siakad-cli/internal/client/query"
	"github.com/dimasprakoso/siakad-cli/internal/client/repositories/metadata"
	"github.com/dimasprakoso/siakad-cli/internal/client/services"
	"github.com/dimasprakoso/siakad-cli/internal/client/session"
	"github.com/dimasprakoso/siakad-cli/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	sessions *session.Store
	auth     services.AuthService
	cache    *query.Cache
	api      *api.Client

	screens map[string]screen
	active  *listScreen

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := metadata.InitDatabase(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing local database: %w", err)
	}

	sessions := session.NewStore(metadata.NewSQLiteRepository(db), log)
	if err := sessions.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	a := &App{
		config:   cfg,
		log:      log,
		sessions: sessions,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}

	opts := []api.Option{api.WithTimeout(cfg.RequestTimeout)}
	if cfg.UnauthorizedPolicy == api.PolicyLogout {
		opts = append(opts, api.WithUnauthorizedPolicy(api.PolicyLogout, func(ctx context.Context) {
			if err := sessions.Logout(ctx); err != nil {
				log.Error(ctx, "clearing session after unauthorized response", "error", err)
				return
			}
			fmt.Fprintln(a.out, "Sesi berakhir, silakan login kembali.")
		}))
	}
	a.api = api.New(cfg.BaseURL, sessions, log, opts...)

	a.cache = query.NewCache(log)
	a.auth = services.NewAuthService(a.api, sessions)
	a.screens = buildScreens(a.api, a.cache, log)
	return a, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.IsAuthenticated()
}

// getStatus renders the prompt suffix: username, role, and token expiry
// when the token carries one.
func (a *App) getStatus() string {
	user := a.sessions.CurrentUser()
	if user == nil {
		return ""
	}
	s := fmt.Sprintf("%s/%s", user.Username, user.Role)
	if exp, ok := a.sessions.TokenExpiry(); ok {
		remaining := time.Until(exp).Truncate(time.Minute)
		if remaining > 0 {
			s += fmt.Sprintf(" exp %s", remaining)
		} else {
			s += " expired"
		}
	}
	return fmt.Sprintf("(%s)", s)
}

func buildScreens(client *api.Client, cache *query.Cache, log logging.Logger) map[string]screen {
	students := entity.NewResource[models.Student](entity.Students, client, cache, log, nil)
	prodi := entity.NewResource[models.Prodi](entity.ProdiLookup, client, cache, log, func(p models.Prodi) string {
		return p.NamaProdi + " " + p.Fakultas
	})
	posts := entity.NewResource[models.Post](entity.Posts, client, cache, log, func(p models.Post) string {
		return p.Title + " " + p.Content
	})
	recipes := entity.NewResource[models.Recipe](entity.Recipes, client, cache, log, func(r models.Recipe) string {
		return r.Name + " " + r.Description
	})
	notes := entity.NewResource[models.Note](entity.Notes, client, cache, log, func(n models.Note) string {
		return n.Title + " " + n.Content
	})

	return map[string]screen{
		"mahasiswa": newStudentScreen(students, prodi),
		"prodi":     newProdiScreen(prodi),
		"posting":   newPostScreen(posts),
		"recipe":    newRecipeScreen(recipes),
		"note":      newNoteScreen(notes),
	}
}
