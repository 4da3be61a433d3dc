package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tandemly/wordpair/internal"
	"github.com/tandemly/wordpair/internal/config"
	"github.com/tandemly/wordpair/internal/content"
	"github.com/tandemly/wordpair/internal/game"
	"github.com/tandemly/wordpair/internal/logger"
	"github.com/tandemly/wordpair/internal/server"
	"github.com/tandemly/wordpair/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("configuration: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	items, err := content.LoadItems(cfg.ItemFile)
	if err != nil {
		logger.Fatalf("load items from %s: %v", cfg.ItemFile, err)
	}
	words, err := content.LoadWordlist(cfg.WordlistFile)
	if err != nil {
		logger.Fatalf("load wordlist from %s: %v", cfg.WordlistFile, err)
	}
	greeting, err := content.LoadGreeting(cfg.GreetingFile)
	if err != nil {
		logger.Fatalf("load greeting from %s: %v", cfg.GreetingFile, err)
	}
	logger.Infof("loaded %d items and %d words", len(items), len(words))

	chat, err := transport.Dial(cfg)
	if err != nil {
		logger.Fatalf("connect to chat host: %v", err)
	}
	defer chat.Close()

	gate := transport.NewSubmissionGate(2, 4)
	ctrl := game.NewController(cfg, chat, game.NewSessionManager(), items, words, greeting, gate)

	httpServer := server.New(cfg.ListenAddr, ctrl).HTTPServer()
	go func() {
		logger.Infof("status server listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("status server: %v", err)
		}
	}()

	run(chat, ctrl, httpServer)
}

// run handles events one at a time on a single goroutine; only timer
// callbacks enter the engine concurrently with this loop.
func run(chat *transport.Client, ctrl *game.Controller, httpServer *http.Server) {
	events := make(chan internal.Event, 64)
	go chat.ReadEvents(events)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				logger.Critical("event stream ended, shutting down")
				shutdown(ctrl, httpServer)
				return
			}
			ctrl.HandleEvent(ev)
		case s := <-sig:
			logger.Infof("received %s, shutting down", s)
			shutdown(ctrl, httpServer)
			return
		}
	}
}

func shutdown(ctrl *game.Controller, httpServer *http.Server) {
	ctrl.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Criticalf("status server shutdown: %v", err)
	}
}
