package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"med-adherence-tracker/internal/adapters/auth/idp"
	"med-adherence-tracker/internal/adapters/auth/localjwt"
	"med-adherence-tracker/internal/adapters/storage/postgres"
	"med-adherence-tracker/internal/platform/logger"
	"med-adherence-tracker/internal/ports/auth"
	"med-adherence-tracker/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	var db *sql.DB
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		opened, err := postgres.Open(dsn)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		db = opened
		log.Info("storage: postgres", nil)
	} else {
		log.Info("storage: in-memory (set DB_DSN for postgres)", nil)
	}

	var (
		verifier auth.AuthVerifier
		issuer   auth.TokenIssuer
	)

	// Dos revisiones de identidad, elegidas por env:
	// - IDP_BASE_URL => verificación delegada al proveedor externo
	// - AUTH_JWT_SECRET => tokens HS256 auto-emitidos
	// - ninguna => modo dev (X-Debug-User-ID)
	switch {
	case os.Getenv("IDP_BASE_URL") != "":
		client, err := idp.NewClient(idp.Config{
			BaseURL: os.Getenv("IDP_BASE_URL"),
			APIKey:  os.Getenv("IDP_API_KEY"),
		})
		if err != nil {
			log.Error("idp client init failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		verifier = idp.NewVerifier(client)
		log.Info("auth: external idp", nil)

	case os.Getenv("AUTH_JWT_SECRET") != "":
		provider, err := localjwt.New(os.Getenv("AUTH_JWT_SECRET"))
		if err != nil {
			log.Error("localjwt init failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		verifier = provider
		issuer = provider
		log.Info("auth: local jwt", nil)

	default:
		log.Warn("auth: dev mode, identity via X-Debug-User-ID", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		TokenIssuer:  issuer,
		DB:           db,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
