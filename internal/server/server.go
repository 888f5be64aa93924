// Package server assembles the stores, caches, registries and HTTP routes
// and runs the service.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/lethang/crmmeta/internal/config"
	"github.com/lethang/crmmeta/internal/event"
	"github.com/lethang/crmmeta/internal/eventbus"
	"github.com/lethang/crmmeta/internal/handler"
	"github.com/lethang/crmmeta/internal/layout"
	"github.com/lethang/crmmeta/internal/listview"
	"github.com/lethang/crmmeta/internal/meta"
)

// Run wires the service together from configuration and serves HTTP until
// the context is cancelled.
func Run(ctx context.Context, cfg *config.Config, db *sql.DB) error {
	cache, err := newCache(cfg.Cache)
	if err != nil {
		return err
	}

	metaSvc := meta.NewService(meta.NewSQLiteStore(db), cache)
	layouts := layout.NewSQLiteStore(db)

	subs := make([]layout.Substitution, 0, len(cfg.Hooks.FieldSubstitutions))
	for _, s := range cfg.Hooks.FieldSubstitutions {
		subs = append(subs, layout.Substitution{
			Doctype:    s.Doctype,
			LayoutType: s.LayoutType,
			From:       s.From,
			To:         s.To,
		})
	}
	resolver := layout.NewResolver(metaSvc, layouts, subs)

	lists := listview.NewRegistry(metaSvc)
	for doctype, provider := range cfg.Hooks.ListOverrides {
		if err := lists.Bind(doctype, provider); err != nil {
			return fmt.Errorf("binding list override: %w", err)
		}
	}

	bus := eventbus.New(256)
	recorder := event.NewStoreRecorder(db)
	recorder.SetPublisher(bus)

	updates := handler.NewUpdatesHandler()
	bus.Subscribe("updates-stream", updates)
	bus.Subscribe("event-log", eventbus.NewLogConsumer())
	bus.Subscribe("meta-cache-invalidator", eventbus.HandlerFunc(
		func(ctx context.Context, evt event.Event) error {
			if evt.Type == event.TypeDoctypeUpdated {
				metaSvc.Invalidate(ctx, evt.Doctype)
			}
			return nil
		}))
	bus.Start(ctx)

	lh := handler.NewLayoutHandler(resolver, layouts, recorder)
	dh := handler.NewDoctypeHandler(metaSvc, lists, recorder)

	dispatcher := handler.NewMethodDispatcher()
	dispatcher.RegisterHandler("fields_layout.get", lh.GetFieldsLayoutRPC)
	for _, mo := range cfg.Hooks.MethodOverrides {
		if err := dispatcher.Bind(mo.Method, mo.Handler); err != nil {
			return fmt.Errorf("binding method override: %w", err)
		}
	}

	r := chi.NewRouter()
	r.Use(handler.Recovery, handler.Logging)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/doctypes", dh.ListDocTypes)
		r.Post("/doctypes", dh.ImportDocType)
		r.Get("/doctypes/{doctype}", dh.GetDocType)
		r.Get("/doctypes/{doctype}/list-settings", dh.GetListSettings)
		r.Get("/layouts/{doctype}", lh.GetFieldsLayout)
		r.Put("/layouts/{doctype}", lh.SaveLayout)
	})

	r.Post("/api/method/{method}", dispatcher.Dispatch)
	r.Get("/ws/updates", updates.ServeHTTP)

	for _, rule := range cfg.Hooks.RouteRules {
		r.Get(rule.FromRoute, appShell(rule.ToRoute))
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	err = srv.ListenAndServe()
	bus.Wait()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func newCache(cfg config.Cache) (meta.Cache, error) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return meta.NewRedisCache(client, time.Duration(cfg.TTLSeconds)*time.Second), nil
	case "memory", "":
		return meta.NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// appShell serves a minimal HTML shell for single-page app routes. The
// route rules map URL prefixes to app entries so deep links inside the
// frontend resolve to the same page.
func appShell(app string) http.HandlerFunc {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body><div id="app" data-entry="%s"></div></body>
</html>
`, app, app)
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}
}
