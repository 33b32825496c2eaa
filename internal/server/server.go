package server

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/ouenpt/internal/chat"
	"github.com/dukerupert/ouenpt/internal/config"
	"github.com/dukerupert/ouenpt/internal/handler"
	"github.com/dukerupert/ouenpt/internal/middleware"
	"github.com/dukerupert/ouenpt/internal/notify"
	"github.com/dukerupert/ouenpt/internal/publish"
	"github.com/dukerupert/ouenpt/internal/regen"
	"github.com/dukerupert/ouenpt/internal/site"
	"github.com/dukerupert/ouenpt/internal/store"
)

type Server struct {
	awardH  *handler.AwardHandler
	trigger *regen.Trigger
	logger  *slog.Logger
}

func New(cfg config.Config, logger *slog.Logger) *Server {
	eventLog := store.NewEventLogStore(cfg.DataFile)
	renderer := site.NewRenderer(cfg.SiteDir)
	publisher := publish.New(cfg.S3, logger.With("component", "publish"))
	trigger := regen.NewTrigger(eventLog, renderer, publisher, cfg.SiteDir, logger.With("component", "regen"))

	chatClient := chat.NewClient(cfg.Chat)
	notifier := notify.New(chatClient, cfg.GraphURL, cfg.ChatDelay, logger.With("component", "notify"))

	return &Server{
		awardH:  handler.NewAwardHandler(eventLog, trigger, notifier, logger.With("component", "award")),
		trigger: trigger,
		logger:  logger,
	}
}

// RegenTrigger returns the regeneration trigger for lifecycle management.
func (s *Server) RegenTrigger() *regen.Trigger {
	return s.trigger
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /add", s.awardH.Add)
	mux.HandleFunc("GET /{$}", s.healthHandler)
	mux.HandleFunc("GET /health", s.healthHandler)

	logged := middleware.RequestLogger(s.logger.With("component", "http"))
	return logged(middleware.CORS(mux))
}

// healthHandler is the liveness probe.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "OK")
}
