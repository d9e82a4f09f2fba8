package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"content-forge/core/config"
	"content-forge/core/database"
	"content-forge/core/loader"
	"content-forge/core/logger"
	"content-forge/core/middleware/auth"
	"content-forge/core/middleware/rayid"
	"content-forge/core/storage"
	"content-forge/feature/content"
	"content-forge/feature/content/parse"
	"content-forge/feature/content/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "content-forge/docs/swagger"
)

// @title Content Forge API
// @version 1.0
// @description API for importing, exporting and merging canonical tabletop game content.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the content forge server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !cfg.Server.HasSystem() {
			logg.Fatal("No active game system configured, set SERVER_SYSTEM")
		}

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		logg = logg.With(zap.String("system", cfg.Server.System))
		logg.Info("Connected to document database")

		world := store.NewGormStore(db)
		if err := world.AutoMigrate(); err != nil {
			logg.Fatal("Failed to migrate document schema", zap.Error(err))
		}
		missing, err := database.VerifyColumns(db, "documents", store.RequiredColumns())
		if err != nil {
			logg.Warn("Document schema inspection failed", zap.Error(err))
		} else if len(missing) > 0 {
			logg.Fatal("Document table is missing required columns", zap.Strings("missing", missing))
		}

		// 4. Initialize Storage
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		libraries := store.NewLibraryStore(client, cfg.Storage.Bucket)
		if err := libraries.EnsureBucket(context.Background()); err != nil {
			logg.Warn("Library bucket check failed", zap.Error(err))
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		traits := parse.NewTraitSet(cfg.Server.TraitKeys()...)
		feature, err := content.NewFeature(logg, world, libraries, cfg.Server.System, traits, nil)
		if err != nil {
			logg.Fatal("Failed to build content feature", zap.Error(err))
		}
		mgr.Register(feature)

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
