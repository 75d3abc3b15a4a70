package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shortkeyhq/shortkey/internal/config"
	"github.com/shortkeyhq/shortkey/internal/db"
	"github.com/shortkeyhq/shortkey/internal/discord"
	"github.com/shortkeyhq/shortkey/internal/handlers"
	"github.com/shortkeyhq/shortkey/internal/session"
	"github.com/shortkeyhq/shortkey/internal/visits"
	"github.com/shortkeyhq/shortkey/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := db.RestoreSnapshot(cfg.DBPath, cfg.DBSnapshotURL, cfg.DBSnapshotToken); err != nil {
		log.Fatalf("snapshot: %v", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close()

	sessions := session.NewManager(cfg.CookieHashKey, cfg.CookieBlockKey, cfg.JWTPublicKey, cfg.JWTPrivateKey)
	discordClient := discord.New(cfg.DiscordClientID, cfg.DiscordClientSecret)
	collector := visits.NewCollector(database, cfg.BufferSize, cfg.FlushInterval)

	templates, err := web.NewTemplateRegistry()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	apiHandler := &handlers.APIHandler{DB: database, Host: cfg.Host}
	authHandler := &handlers.AuthHandler{
		DB:            database,
		Discord:       discordClient,
		Sessions:      sessions,
		AllowedGuilds: cfg.DiscordGuilds,
		Host:          cfg.Host,
	}
	homeHandler := &handlers.HomeHandler{Sessions: sessions, Templates: templates, Host: cfg.Host}
	redirectHandler := &handlers.RedirectHandler{DB: database, Collector: collector}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthcheck", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Ok"))
	})
	r.Get("/", homeHandler.Home)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.Callback)
		r.Get("/logout", authHandler.Logout)
	})

	// Management API (session required)
	r.Route("/api", func(r chi.Router) {
		r.Use(handlers.RequireSession(sessions))
		r.Get("/redirect", apiHandler.List)
		r.Post("/redirect", apiHandler.Create)
		r.Put("/redirect", apiHandler.Update)
		r.Delete("/redirect", apiHandler.Delete)
		r.Get("/redirect/{key}/qr", apiHandler.QRCode)
	})

	staticSub, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(staticSub))))

	// Everything else is a short key
	r.NotFound(redirectHandler.ServeHTTP)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("shortkey listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-stop
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	collector.Shutdown()
	log.Println("goodbye")
}
