// Command demo runs a minimal host server with the ja4guard SDK
// installed: the three session endpoints plus a protected sample
// endpoint, backed by Redis when one is reachable and degrading to
// audit-less operation when not.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/ja4guard/ja4guard"
	"github.com/ja4guard/ja4guard/core/config"
	"github.com/ja4guard/ja4guard/core/logger"
	"github.com/ja4guard/ja4guard/core/sessionsecurity"
	"github.com/ja4guard/ja4guard/handler"
	"github.com/ja4guard/ja4guard/integration/database/redis"
)

type serverConfig struct {
	Addr string `env:"ADDR" envDefault:":8080"`
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var srvCfg serverConfig
	config.MustLoad(&srvCfg)
	var redisCfg redis.Config
	config.MustLoad(&redisCfg)

	ctx := context.Background()
	mux := http.NewServeMux()

	var store sessionsecurity.Store
	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		// The guard keeps enforcing fingerprint binding without the
		// store; only audit completeness is lost.
		log.Warn("audit store disabled", logger.Error(err))
	} else {
		defer client.Close()
		store = sessionsecurity.NewRedisStore(client)

		healthcheck := redis.Healthcheck(client)
		mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
			if err := healthcheck(r.Context()); err != nil {
				http.Error(w, "audit store unhealthy", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
	}

	repo := sessionsecurity.NewRepository(store, sessionsecurity.WithLogger(log))

	creds, err := handler.NewDemoCredentials()
	if err != nil {
		log.Error("failed to build credential store", logger.Error(err))
		os.Exit(1)
	}

	mux.HandleFunc("GET /api/data", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"data":"protected"}`))
	})

	protected := ja4guard.Install(mux, repo, creds, ja4guard.WithLogger(log))

	log.Info("demo server listening", slog.String("addr", srvCfg.Addr))
	if err := http.ListenAndServe(srvCfg.Addr, protected); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}
