package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"med-adherence-tracker/internal/adapters/auth/localjwt"
	mem "med-adherence-tracker/internal/adapters/storage/memory"
	pg "med-adherence-tracker/internal/adapters/storage/postgres"
	"med-adherence-tracker/internal/domain/adherence"
	"med-adherence-tracker/internal/domain/medications"
	"med-adherence-tracker/internal/domain/users"
	"med-adherence-tracker/internal/middleware"
	"med-adherence-tracker/internal/platform/logger"
	"med-adherence-tracker/internal/ports/auth"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev: X-Debug-User-ID)
	TokenIssuer  auth.TokenIssuer  // puede ser nil (se arma localjwt desde env)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			if opened, err := pg.Open(dsn); err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to memory", map[string]any{"err": err.Error()})
			}
		}
	}

	var (
		usersRepo users.Repository
		medsRepo  medications.Repository
		logsRepo  adherence.Repository
	)

	if db != nil {
		usersRepo = pg.NewUsersRepo(db)
		medsRepo = pg.NewMedicationsRepo(db)
		logsRepo = pg.NewAdherenceRepo(db)
	} else {
		usersRepo = mem.NewUsersRepo()
		medsRepo = mem.NewMedicationsRepo()
		logsRepo = mem.NewAdherenceRepo()
	}

	// El issuer siempre hace falta para /auth/*, incluso en modo dev.
	issuer := opts.TokenIssuer
	if issuer == nil {
		secret := os.Getenv("AUTH_JWT_SECRET")
		if secret == "" {
			secret = "dev-secret-change-me"
		}
		provider, err := localjwt.New(secret)
		if err == nil {
			issuer = provider
		}
	}

	// Services por módulo
	usersSvc := users.NewService(usersRepo)
	medsSvc := medications.NewService(medsRepo)
	logsSvc := adherence.NewService(logsRepo, medsSvc)

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, issuer)
	medications.RegisterRoutes(r, medsSvc, logsSvc)
	adherence.RegisterRoutes(r, logsSvc)

	return r
}
