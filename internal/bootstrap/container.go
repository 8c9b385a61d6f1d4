package bootstrap

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"aquatech-web/internal/authevents"
	"aquatech-web/internal/catalog"
	"aquatech-web/internal/config"
	"aquatech-web/internal/controller"
	"aquatech-web/internal/pkg/logger"
	"aquatech-web/internal/pkg/mailer"
	"aquatech-web/internal/repository/contract"
	"aquatech-web/internal/repository/memory"
	"aquatech-web/internal/repository/redisstore"
	"aquatech-web/internal/repository/unitofwork"
	"aquatech-web/internal/service"
	"aquatech-web/internal/sessiongate"
	"aquatech-web/internal/websocket"
	"aquatech-web/pkg/database"
	"aquatech-web/pkg/identity"
	pktNats "aquatech-web/pkg/nats"
	"aquatech-web/pkg/sealer"

	"github.com/redis/go-redis/v9"
)

const (
	sealerInfo         = "aquatech-web/session"
	loadingRetrySecond = 1
)

// Infra holds the external dependencies of the container. Optional parts are
// nil when the backing service is not configured.
type Infra struct {
	Identity  identity.Client
	Sessions  contract.AuthSessionRepository
	Products  unitofwork.RepositoryFactory
	Redis     *redis.Client
	Publisher service.EventPublisher
	Mailer    mailer.IEmailService

	Logger       logger.ILogger
	StreamLogger logger.ILogger

	closers []func()
}

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	PageController    controller.IPageController
	ProductController controller.IProductController
	VisionController  controller.IVisionController
	SessionController controller.ISessionController

	// Session state
	Registry     *sessiongate.Registry
	Notifier     *authevents.Notifier
	WebSocketHub *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// NewContainer connects the configured infrastructure and wires the app.
func NewContainer(cfg *config.Config) (*Container, error) {
	infra, err := NewInfra(cfg)
	if err != nil {
		return nil, err
	}
	return NewContainerWith(cfg, infra), nil
}

func NewInfra(cfg *config.Config) (*Infra, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	infra := &Infra{
		Logger:       sysLogger,
		StreamLogger: logger.NewIsolatedLogger(cfg.App.StreamLogFilePath),
	}

	if err := cfg.Validate(); err != nil {
		if cfg.IsProduction() || !errors.Is(err, config.ErrIdentityNotConfigured) {
			return nil, err
		}
		sysLogger.Warn("Bootstrap", "Identity service is not configured, sign-in is disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}

	infra.Identity = identity.NewGoTrueClient(identity.Config{
		BaseURL: cfg.Identity.URL,
		AnonKey: cfg.Identity.AnonKey,
		Timeout: cfg.Identity.Timeout,
	})

	// Redis
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err = rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to Redis, using in-memory sessions", map[string]interface{}{"error": err.Error()})
			rdb.Close()
		} else {
			infra.Redis = rdb
			infra.closers = append(infra.closers, func() { rdb.Close() })
		}
	}

	// Sessions
	if infra.Redis != nil {
		seal, err := newSealer(cfg.Session.Secret, sysLogger)
		if err != nil {
			return nil, err
		}
		infra.Sessions = redisstore.NewSessionRepository(infra.Redis, seal, cfg.Session.TTL)
	} else {
		infra.Sessions = memory.NewSessionRepository(cfg.Session.TTL)
	}

	// Catalog
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			infra.closers = append(infra.closers, func() { sqlDB.Close() })
		}
		infra.Products = unitofwork.NewRepositoryFactory(db)
	} else {
		factory := unitofwork.NewMemoryRepositoryFactory(memory.NewProductRepository())
		products, err := catalog.Bundled()
		if err != nil {
			return nil, err
		}
		n, err := catalog.Seed(context.Background(), factory, products)
		if err != nil {
			return nil, err
		}
		sysLogger.Info("Bootstrap", "Serving bundled catalog from memory", map[string]interface{}{"products": n})
		infra.Products = factory
	}

	// NATS
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS Publisher, audit events are disabled", map[string]interface{}{"error": err.Error()})
		} else {
			infra.Publisher = natsPub
			infra.closers = append(infra.closers, natsPub.Close)
		}
	}

	// SMTP
	if cfg.SMTPEnabled() {
		infra.Mailer = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.SenderName,
		)
	}

	return infra, nil
}

// newSealer falls back to a random key when no secret is configured. Stored
// sessions then do not survive a restart.
func newSealer(secret string, sysLogger logger.ILogger) (*sealer.Sealer, error) {
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		secret = hex.EncodeToString(buf)
		sysLogger.Warn("Bootstrap", "SESSION_SECRET is not set, using an ephemeral key", nil)
	}
	return sealer.New(secret, sealerInfo)
}

// NewContainerWith wires services and controllers on top of infra.
func NewContainerWith(cfg *config.Config, infra *Infra) *Container {
	sysLogger := infra.Logger
	streamLogger := infra.StreamLogger
	if streamLogger == nil {
		streamLogger = sysLogger
	}

	notifier := authevents.NewNotifier(infra.Redis, sysLogger)

	authService := service.NewAuthService(
		infra.Identity,
		infra.Sessions,
		notifier,
		infra.Publisher,
		sysLogger,
		service.AuthServiceConfig{
			CallbackURL: cfg.App.BaseURL + "/auth/callback",
			Providers:   cfg.Identity.Providers,
		},
	)
	productService := service.NewProductService(infra.Products)
	visionService := service.NewVisionService()
	inquiryService := service.NewInquiryService(infra.Products, infra.Mailer, cfg.SMTP.SalesEmail, cfg.App.BaseURL, sysLogger)

	registry := sessiongate.NewRegistry(authService, cfg.Session.GateIdleTTL, sysLogger)
	guard := controller.NewSessionGuard(registry, cfg.Session.LoadingGrace, cfg.Identity.JWTSecret)
	pages := controller.NewPages(cfg.Identity.Providers, loadingRetrySecond)

	return &Container{
		AuthController:    controller.NewAuthController(authService, guard, pages),
		PageController:    controller.NewPageController(productService, visionService, inquiryService, guard, pages),
		ProductController: controller.NewProductController(productService, guard),
		VisionController:  controller.NewVisionController(visionService, productService, guard),
		SessionController: controller.NewSessionController(guard),

		Registry:     registry,
		Notifier:     notifier,
		WebSocketHub: websocket.NewHub(streamLogger),

		Logger:  sysLogger,
		closers: infra.closers,
	}
}

// Start runs the background relay of auth events until ctx is done.
func (c *Container) Start(ctx context.Context) {
	go c.Notifier.Run(ctx)
}

// Close stops session streams and gates before the infrastructure they use.
func (c *Container) Close() {
	c.WebSocketHub.Close()
	c.Registry.Close()
	if err := c.Notifier.Close(); err != nil {
		c.Logger.Warn("Bootstrap", "Failed to close notifier", map[string]interface{}{"error": err.Error()})
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.Logger.Sync()
}
