package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"aboutwebsite-backend/internal/background"
	"aboutwebsite-backend/internal/config"
	"aboutwebsite-backend/internal/handlers"
	"aboutwebsite-backend/internal/middleware"
	"aboutwebsite-backend/internal/models"
	"aboutwebsite-backend/internal/repository"
	"aboutwebsite-backend/internal/service"
	"aboutwebsite-backend/pkg/cache"
	"aboutwebsite-backend/pkg/logger"
)

type Application struct {
	cfg *config.Config

	db    *gorm.DB
	cache *cache.Cache

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	rateLimits *middleware.RateLimitManager
	scheduler  *background.Scheduler

	router *gin.Engine
	server *http.Server
}

type repositoryContainer struct {
	User      repository.UserRepository
	Website   repository.WebsiteRepository
	UserImage repository.UserImageRepository
}

type serviceContainer struct {
	Auth    *service.AuthService
	Website *service.WebsiteService
	Builder *service.BuilderService
	Domain  *service.DomainService
	Content *service.ContentService
	Upload  *service.UploadService
	Admin   *service.AdminService
}

type handlerContainer struct {
	Auth    *handlers.AuthHandler
	Website *handlers.WebsiteHandler
	Builder *handlers.BuilderHandler
	Domain  *handlers.DomainHandler
	Content *handlers.ContentHandler
	Upload  *handlers.UploadHandler
	Admin   *handlers.AdminHandler
}

func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &Application{cfg: cfg}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.runMigrations(); err != nil {
		return nil, err
	}

	if err := app.createIndexes(); err != nil {
		return nil, err
	}

	if err := app.initCache(); err != nil {
		return nil, err
	}

	app.initRepositories()
	app.initServices()
	app.initHandlers()

	if err := app.initRouter(); err != nil {
		return nil, err
	}

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

// StartBackground launches the rate-limit manager and the job scheduler,
// including the recurring SSL promotion job.
func (a *Application) StartBackground(ctx context.Context) error {
	a.rateLimits = middleware.NewRateLimitManager(ctx)

	a.scheduler = background.NewScheduler(background.SchedulerConfig{})
	a.scheduler.Start(ctx)

	interval := time.Duration(a.cfg.SSLPollIntervalSeconds) * time.Second
	if err := a.scheduler.SchedulePeriodic(interval, background.Job{
		Name:    "ssl_promotion",
		Run:     a.services.Domain.ProcessPendingSSL,
		Timeout: time.Minute,
		RetryPolicy: background.RetryPolicy{
			MaxRetries: 2,
			Backoff:    10 * time.Second,
		},
	}); err != nil {
		return err
	}

	staleAfter := time.Duration(a.cfg.UploadStaleAfterSeconds) * time.Second
	return a.scheduler.SchedulePeriodic(staleAfter, background.Job{
		Name: "upload_sweep",
		Run: func(ctx context.Context) error {
			_, err := a.services.Builder.ExpireStaleUploads(staleAfter)
			return err
		},
		Timeout: time.Minute,
	})
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(ctx); err != nil {
			logger.Error(err, "Failed to stop scheduler", nil)
		}
	}

	if a.rateLimits != nil {
		if err := a.rateLimits.Shutdown(); err != nil {
			logger.Error(err, "Failed to stop rate limit manager", nil)
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.User{},
		&models.Website{},
		&models.UserImage{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func (a *Application) createIndexes() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_websites_published ON websites(is_published) WHERE is_published = true",
		"CREATE INDEX IF NOT EXISTS idx_websites_custom_domain ON websites(custom_domain) WHERE custom_domain <> ''",
		"CREATE INDEX IF NOT EXISTS idx_websites_ssl_pending ON websites(ssl_status) WHERE ssl_status = 'pending'",
		"CREATE INDEX IF NOT EXISTS idx_websites_data ON websites USING GIN (data)",
		"CREATE INDEX IF NOT EXISTS idx_user_images_user ON user_images(user_id, created_at DESC)",
	}

	for _, stmt := range statements {
		if err := a.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (a *Application) initCache() error {
	addr := ""
	enable := false
	if a.cfg.EnableCache && a.cfg.EnableRedis {
		addr = a.cfg.RedisURL
		enable = true
	}

	c, err := cache.NewCache(addr, enable)
	if err != nil {
		// Redis being down degrades to uncached operation.
		logger.Error(err, "Cache unavailable, continuing without it", nil)
		c, _ = cache.NewCache("", false)
	}

	a.cache = c
	return nil
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		User:      repository.NewUserRepository(a.db),
		Website:   repository.NewWebsiteRepository(a.db),
		UserImage: repository.NewUserImageRepository(a.db),
	}
}

func (a *Application) initServices() {
	websiteService := service.NewWebsiteService(a.repositories.Website, a.repositories.User, a.cache, a.cfg)

	var generator service.ContentGenerator
	if a.cfg.AIAPIKey != "" {
		g, err := service.NewOpenAIContentGenerator(a.cfg.AIAPIKey, service.OpenAIContentOptions{
			Endpoint: a.cfg.AIEndpoint,
		})
		if err != nil {
			logger.Error(err, "Content generation disabled", nil)
		} else {
			generator = g
		}
	}

	a.services = serviceContainer{
		Auth:    service.NewAuthService(a.repositories.User, a.cfg.JWTSecret),
		Website: websiteService,
		Builder: service.NewBuilderService(websiteService, a.repositories.Website),
		Domain:  service.NewDomainService(a.repositories.Website, a.cfg),
		Content: service.NewContentService(websiteService, a.repositories.Website, generator),
		Upload:  service.NewUploadService(a.repositories.UserImage, a.repositories.User, a.cfg.UploadDir, a.cfg.MaxUploadSize, a.cfg.MaxImagesPerUser),
		Admin:   service.NewAdminService(a.repositories.User, a.repositories.Website),
	}
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Auth:    handlers.NewAuthHandler(a.services.Auth),
		Website: handlers.NewWebsiteHandler(a.services.Website),
		Builder: handlers.NewBuilderHandler(a.services.Builder),
		Domain:  handlers.NewDomainHandler(a.services.Domain, a.services.Website),
		Content: handlers.NewContentHandler(a.services.Content),
		Upload:  handlers.NewUploadHandler(a.services.Upload, a.services.Builder),
		Admin:   handlers.NewAdminHandler(a.services.Admin),
	}
}

func (a *Application) initRouter() error {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLogger())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}

	// Expose the shared rate-limit manager to the limiting middleware.
	router.Use(func(c *gin.Context) {
		if a.rateLimits != nil {
			c.Set("rateLimitManager", a.rateLimits)
		}
		c.Next()
	})
	router.Use(middleware.RateLimitMiddleware(a.cfg))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.Static("/uploads", a.cfg.UploadDir)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", a.handlers.Auth.Register)
			auth.POST("/login", a.handlers.Auth.Login)
			auth.POST("/logout", a.handlers.Auth.Logout)
		}

		// Public render path for published sites.
		api.GET("/sites/published", a.handlers.Website.GetPublishedSite)

		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))
		{
			authorized.GET("/auth/me", a.handlers.Auth.Me)

			authorized.GET("/websites", a.handlers.Website.GetWebsites)
			authorized.POST("/websites", a.handlers.Website.CreateWebsite)
			authorized.GET("/websites/:id", a.handlers.Website.GetWebsite)
			authorized.PUT("/websites/:id", a.handlers.Website.UpdateWebsite)
			authorized.DELETE("/websites/:id", a.handlers.Website.DeleteWebsite)
			authorized.POST("/websites/:id/publish", a.handlers.Website.PublishWebsite)
			authorized.POST("/websites/:id/unpublish", a.handlers.Website.UnpublishWebsite)

			authorized.PATCH("/websites/:id/fields", a.handlers.Builder.UpdateField)
			authorized.POST("/websites/:id/sections", a.handlers.Builder.AddSection)
			authorized.DELETE("/websites/:id/sections/:key", a.handlers.Builder.RemoveSection)
			authorized.POST("/websites/:id/sections/:key/move", a.handlers.Builder.MoveSection)
			authorized.POST("/websites/:id/sections/:key/duplicate", a.handlers.Builder.DuplicateSection)
			authorized.POST("/websites/:id/sections/:key/template", a.handlers.Builder.SetCustomTemplate)
			authorized.PUT("/websites/:id/sections/order", a.handlers.Builder.ReorderSections)
			authorized.POST("/websites/:id/images/select", a.handlers.Builder.SelectImage)
			authorized.DELETE("/websites/:id/images", a.handlers.Builder.RemoveImage)

			authorized.GET("/domains/check-subdomain", a.handlers.Domain.CheckSubdomain)
			authorized.GET("/domains/check-custom-domain", a.handlers.Domain.CheckCustomDomain)
			authorized.PUT("/websites/:id/domain", a.handlers.Domain.SetCustomDomain)
			authorized.DELETE("/websites/:id/domain", a.handlers.Domain.RemoveCustomDomain)
			authorized.POST("/websites/:id/domain/check-dns", a.handlers.Domain.CheckDNS)
			authorized.POST("/websites/:id/domain/ssl", a.handlers.Domain.RequestSSL)
			authorized.GET("/websites/:id/domain/ssl", a.handlers.Domain.GetSSLStatus)

			generate := authorized.Group("/")
			generate.Use(middleware.GenerateRateLimitMiddleware(a.cfg))
			{
				generate.POST("/websites/:id/generate", a.handlers.Content.GenerateWebsite)
				generate.POST("/websites/:id/generate-section", a.handlers.Content.GenerateSection)
			}

			uploads := authorized.Group("/")
			uploads.Use(middleware.UploadRateLimitMiddleware(a.cfg))
			{
				uploads.POST("/images", a.handlers.Upload.UploadImage)
			}
			authorized.GET("/images", a.handlers.Upload.GetUserImages)
			authorized.DELETE("/images/:id", a.handlers.Upload.DeleteImage)

			admin := authorized.Group("/admin")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.GET("/users", a.handlers.Admin.ListUsers)
				admin.GET("/websites", a.handlers.Admin.ListWebsites)
				admin.PUT("/users/:id/subscription", a.handlers.Admin.SetSubscription)
			}
		}
	}

	a.router = router
	return nil
}
