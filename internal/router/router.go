package router

import (
	"context"
	"database/sql"
	"net/http"

	mem "animal-chip-tracker/internal/adapters/storage/memory"
	pg "animal-chip-tracker/internal/adapters/storage/postgres"
	"animal-chip-tracker/internal/domain/accounts"
	"animal-chip-tracker/internal/domain/animals"
	"animal-chip-tracker/internal/domain/animaltypes"
	"animal-chip-tracker/internal/domain/areas"
	"animal-chip-tracker/internal/domain/locations"
	"animal-chip-tracker/internal/middleware"
	"animal-chip-tracker/internal/platform/logger"
	"animal-chip-tracker/internal/ports/auth"
	"animal-chip-tracker/pkg/apperr"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Log logger.Logger

	// Distancia mínima entre puntos (metros). Cero usa el default.
	MinLocationDistanceMeters float64

	// Admin inicial; vacío = no sembrar. El alta es idempotente: si el
	// email ya existe no pasa nada.
	AdminEmail    string
	AdminPassword string
}

func NewRouter(opts Options) http.Handler {
	var (
		accountsRepo accounts.Repository
		locsRepo     locations.Repository
		typesRepo    animaltypes.Repository
		animalsRepo  animals.Repository
		areasRepo    areas.Repository
	)

	if opts.DB != nil {
		accountsRepo = pg.NewAccountsRepo(opts.DB)
		locsRepo = pg.NewLocationsRepo(opts.DB)
		typesRepo = pg.NewAnimalTypesRepo(opts.DB)
		animalsRepo = pg.NewAnimalsRepo(opts.DB)
		areasRepo = pg.NewAreasRepo(opts.DB)
	} else {
		accountsRepo = mem.NewAccountsRepo()
		locsRepo = mem.NewLocationsRepo()
		typesRepo = mem.NewAnimalTypesRepo()
		animalsRepo = mem.NewAnimalsRepo()
		areasRepo = mem.NewAreasRepo()
	}

	minDistance := opts.MinLocationDistanceMeters
	if minDistance <= 0 {
		minDistance = 30
	}

	// Services por módulo. El repo de animales responde las referencias
	// inversas que bloquean borrados en los módulos vecinos.
	accountsSvc := accounts.NewService(accountsRepo, animalsRepo)
	locsSvc := locations.NewService(locsRepo, animalsRepo, minDistance)
	typesSvc := animaltypes.NewService(typesRepo, animalsRepo)
	animalsSvc := animals.NewService(animalsRepo, locsRepo, typesRepo, accountsRepo)
	areasSvc := areas.NewService(areasRepo)

	if opts.AdminEmail != "" && opts.AdminPassword != "" {
		_, err := accountsSvc.CreateWithRole(context.Background(), accounts.RegisterInput{
			FirstName: "Admin",
			LastName:  "Admin",
			Email:     opts.AdminEmail,
			Password:  opts.AdminPassword,
		}, auth.RoleAdmin)
		if err != nil && !apperr.Is(err, apperr.KindConflict) && opts.Log != nil {
			opts.Log.Warn("admin bootstrap failed", map[string]any{"error": err.Error()})
		}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.Log != nil {
		r.Use(middleware.RequestLogger(opts.Log))
	}
	// Basic auth: el service de cuentas es el verificador de credenciales.
	r.Use(middleware.AuthContext(accountsSvc))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	accounts.RegisterRoutes(r, accountsSvc)
	locations.RegisterRoutes(r, locsSvc)
	animaltypes.RegisterRoutes(r, typesSvc)
	animals.RegisterRoutes(r, animalsSvc)
	areas.RegisterRoutes(r, areasSvc)

	return r
}
