package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"github.com/trialmatch/backend/internal/config"
	httpdelivery "github.com/trialmatch/backend/internal/delivery/http"
	"github.com/trialmatch/backend/internal/delivery/http/handler"
	"github.com/trialmatch/backend/internal/infrastructure/database"
	"github.com/trialmatch/backend/internal/infrastructure/gemini"
	"github.com/trialmatch/backend/internal/infrastructure/geocode"
	"github.com/trialmatch/backend/internal/infrastructure/server"
	"github.com/trialmatch/backend/internal/infrastructure/trialsearch"
	"github.com/trialmatch/backend/internal/notify"
	"github.com/trialmatch/backend/internal/repository"
	"github.com/trialmatch/backend/internal/repository/memory"
	pgrepo "github.com/trialmatch/backend/internal/repository/postgres"
	redisrepo "github.com/trialmatch/backend/internal/repository/redis"
	"github.com/trialmatch/backend/internal/usecase/matches"
	"github.com/trialmatch/backend/internal/usecase/matching"
	"github.com/trialmatch/backend/internal/usecase/profile"
	"github.com/trialmatch/backend/internal/usecase/swipe"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *goredis.Client
	Server *server.Server
	Gemini *gemini.GeminiClient

	cancelPolling context.CancelFunc
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	// Initialize storage backend
	profileRepo, matchRepo, err := c.initStorage(cfg)
	if err != nil {
		return nil, err
	}

	// Initialize external clients
	searchClient := trialsearch.NewClient(cfg.TrialSearch.BaseURL)

	var geocodeClient *geocode.Client
	if cfg.Geocoding.APIKey != "" {
		geocodeClient = geocode.NewClient(cfg.Geocoding.APIKey)
	} else {
		fmt.Println("Warning: no geocoding API key, distance matching degrades to location heuristics")
	}

	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			fmt.Printf("Warning: failed to initialize Gemini client: %v\n", err)
			// Don't fail, just continue without AI features
		} else {
			c.Gemini = geminiClient
		}
	}

	// Initialize notification port and match store
	bus := notify.NewBus()
	store := matches.NewStore(context.Background(), matchRepo, bus)

	pollCtx, cancel := context.WithCancel(context.Background())
	c.cancelPolling = cancel
	store.StartPolling(pollCtx, cfg.Matching.PollInterval)

	// Initialize use cases
	profileUseCase := newProfileUseCase(profileRepo, geocodeClient)

	ranker := matching.NewRanker(resolverOrNil(geocodeClient), matching.Options{
		MinScore:              cfg.Matching.MinScore,
		BandWidth:             cfg.Matching.BandWidth,
		EnforceDistanceCutoff: cfg.Matching.EnforceDistanceCutoff,
	})

	swipeManager := swipe.NewManager(store, profileUseCase, searchClient, ranker)

	// Initialize handlers
	profileHandler := handler.NewProfileHandler(profileUseCase)
	sessionHandler := handler.NewSessionHandler(swipeManager)
	matchHandler := handler.NewMatchHandler(store, profileUseCase, c.Gemini)

	// Initialize router and server
	router := httpdelivery.NewRouter(profileHandler, sessionHandler, matchHandler, searchClient)
	c.Server = server.NewServer(&cfg.Server, router.Setup())

	return c, nil
}

func (c *Container) initStorage(cfg *config.Config) (repository.ProfileRepository, repository.MatchRepository, error) {
	switch cfg.Storage.Type {
	case "redis":
		redisClient, err := database.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		c.Redis = redisClient
		return redisrepo.NewProfileRepository(redisClient), redisrepo.NewMatchRepository(redisClient), nil

	case "postgres":
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.EnsureSchema(db); err != nil {
			return nil, nil, err
		}
		c.DB = db
		return pgrepo.NewProfileRepository(db), pgrepo.NewMatchRepository(db), nil

	case "memory":
		store := memory.NewStore()
		return store.ProfileRepository(), store.MatchRepository(), nil

	default:
		return nil, nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}

// newProfileUseCase keeps the nil-client case a true nil interface.
func newProfileUseCase(repo repository.ProfileRepository, geocodeClient *geocode.Client) *profile.ProfileUseCase {
	if geocodeClient == nil {
		return profile.NewProfileUseCase(repo, nil)
	}
	return profile.NewProfileUseCase(repo, geocodeClient)
}

func resolverOrNil(geocodeClient *geocode.Client) matching.LocationResolver {
	if geocodeClient == nil {
		return nil
	}
	return geocodeClient
}

// Close closes all connections
func (c *Container) Close() error {
	if c.cancelPolling != nil {
		c.cancelPolling()
	}

	if c.Gemini != nil {
		c.Gemini.Close()
	}

	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			fmt.Printf("Error closing Redis: %v\n", err)
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
