package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/coursequiz/internal/auth"
	"github.com/stemsi/coursequiz/internal/config"
	"github.com/stemsi/coursequiz/internal/database"
	"github.com/stemsi/coursequiz/internal/notify"
	"github.com/stemsi/coursequiz/internal/repository"
	"golang.org/x/term"
)

const tokenLeeway = 30 * time.Second

// app wires the shared dependencies of every subcommand. Redis and the
// credential are resolved lazily so that commands not needing them don't
// prompt or connect.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	once  sync.Once
	rdb   *redis.Client
	creds *auth.JWTCredential
}

func newApp(cfg *config.Config, log zerolog.Logger) *app {
	return &app{cfg: cfg, log: log}
}

// redis connects once; nil means caching and relaying are off.
func (a *app) redis(ctx context.Context) *redis.Client {
	a.once.Do(func() {
		if a.cfg.RedisURL == "" {
			return
		}
		rdb, err := database.NewRedisClient(ctx, a.cfg, a.log)
		if err != nil {
			a.log.Warn().Err(err).Msg("Redis unavailable, continuing without cache and relay")
			return
		}
		a.rdb = rdb
	})
	return a.rdb
}

func (a *app) close() {
	if a.rdb != nil {
		a.rdb.Close()
		a.rdb = nil
	}
}

// credentials returns the bearer credential, prompting for it without echo
// when QUIZ_TOKEN is unset and stdin is a terminal.
func (a *app) credentials() *auth.JWTCredential {
	if a.creds != nil {
		return a.creds
	}

	token := a.cfg.Token
	if token == "" && term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(os.Stderr, "Enter access token: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			a.log.Warn().Err(err).Msg("Error reading token")
		}
		token = strings.TrimSpace(string(raw))
	}

	a.creds = auth.NewJWTCredential(auth.StaticCredential(token), tokenLeeway)
	return a.creds
}

// notifier prints notifications and, with Redis, publishes them for the bridge.
func (a *app) notifier(ctx context.Context) notify.Notifier {
	out := notify.Multi{notify.NewLogNotifier(a.log)}
	if rdb := a.redis(ctx); rdb != nil {
		out = append(out, notify.NewRedisPublisher(rdb, a.cfg.NotifyChannel, a.log))
	}
	return out
}

func (a *app) client() *repository.Client {
	return repository.NewClient(a.cfg.APIBaseURL, a.cfg.RequestTimeout, a.credentials(), a.log)
}

func (a *app) quizRepository(ctx context.Context, client *repository.Client) *repository.QuizRepository {
	var cache repository.QuizCache
	if rdb := a.redis(ctx); rdb != nil {
		cache = database.NewRedisQuizCache(rdb, a.cfg.QuizCacheTTL)
	}
	return repository.NewQuizRepository(client, cache)
}
