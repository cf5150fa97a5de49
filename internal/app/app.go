package app

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/rentopedia/rentals-service/internal/config"
	"github.com/rentopedia/rentals-service/internal/events"
	"github.com/rentopedia/rentals-service/internal/repositories"
	"github.com/rentopedia/rentals-service/internal/services"
	"github.com/rentopedia/rentals-service/internal/utils"
)

// App owns the store handle and wires repositories, the event fan-out
// and services. The pool is constructed here, once, at startup; nothing
// connects lazily per request.
type App struct {
	Config *config.Config
	DB     *pgxpool.Pool

	UserRepo        repositories.UserRepository
	PropertyRepo    repositories.PropertyRepository
	DeletedUserRepo repositories.DeletedUserRepository

	Events        *events.Fanout
	amqpPublisher *events.AMQPPublisher

	AuthService        *services.AuthService
	UserService        *services.UserService
	PropertyService    *services.PropertyService
	RentRequestService *services.RentRequestService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	utils.Logger.Info("Initializing rentals-service App")

	pool, err := pgxpool.Connect(ctx, cfg.DBURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	a := &App{Config: cfg, DB: pool}

	a.UserRepo = repositories.NewUserRepository(pool)
	a.PropertyRepo = repositories.NewPropertyRepository(pool)
	a.DeletedUserRepo = repositories.NewDeletedUserRepository(pool)

	a.Events = events.NewFanout(events.LogListener{})
	if cfg.AMQPURL != "" {
		pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueueName)
		if err != nil {
			pool.Close()
			return nil, err
		}
		a.amqpPublisher = pub
		a.Events.Add(pub)
	}
	if cfg.SendgridAPIKey != "" {
		a.Events.Add(events.NewEmailNotifier(cfg.SendgridAPIKey, cfg.SendgridFromEmail, a.UserRepo))
	}

	a.AuthService = services.NewAuthService(a.UserRepo, []byte(cfg.JWTSecret), config.TokenTTL)
	a.UserService = services.NewUserService(a.UserRepo, a.DeletedUserRepo, a.PropertyRepo)
	a.PropertyService = services.NewPropertyService(a.PropertyRepo)
	a.RentRequestService = services.NewRentRequestService(a.PropertyRepo, a.Events)

	return a, nil
}

// Ping backs the health endpoint.
func (a *App) Ping(ctx context.Context) error {
	return a.DB.Ping(ctx)
}

func (a *App) Close() {
	utils.Logger.Info("rentals-service app shutting down.")
	if a.amqpPublisher != nil {
		a.amqpPublisher.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
