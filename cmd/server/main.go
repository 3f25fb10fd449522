package main

import (
	"context"
	"errors"
	"log"
	"time"

	"vozdalei-backend/config"
	"vozdalei-backend/handlers"
	"vozdalei-backend/llm"
	"vozdalei-backend/repository"
	"vozdalei-backend/service"
	"vozdalei-backend/sources"
	"vozdalei-backend/speech"
	"vozdalei-backend/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	settings := config.Load()

	// Initialize database connection
	db, err := initPostgres(settings.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize Postgres:", err)
	}
	defer db.Close()

	// Initialize storage
	audioStorage, err := storage.NewStorageFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Println("Storage initialized")

	// Initialize repositories
	legislationRepo := repository.NewLegislationRepository(db)
	queryRepo := repository.NewQueryRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize the language model provider. A missing key disables the
	// model and the services answer in degraded mode.
	provider, err := llm.NewProvider(llm.ConfigFromEnv())
	if err != nil {
		log.Fatal("Failed to initialize language model provider:", err)
	}
	if provider == nil {
		log.Printf("Warning: no LLM API key configured, chat and simplification run degraded")
	} else {
		log.Printf("Language model provider initialized: %s", provider.Name())
	}

	// Initialize legislative data sources
	camara := sources.NewCamaraClient(settings.CamaraAPIURL)
	senado := sources.NewSenadoClient(settings.SenadoAPIURL)
	lexml := sources.NewLexMLClient(settings.LexMLAPIURL)
	queridoDiario := sources.NewQueridoDiarioClient(settings.QueridoDiarioAPIURL)
	unifiedSearch := sources.NewUnifiedSearch(camara, senado, lexml)

	// Initialize the audio service. Speech stays optional.
	audioOpts := []service.AudioServiceOption{
		service.AudioWithStorage(audioStorage),
		service.AudioWithMaxBytes(settings.MaxAudioBytes),
		service.AudioWithRetention(settings.AudioRetention),
	}
	speechClient, err := speech.NewClient(settings.OpenAIAPIKey)
	if err != nil {
		if errors.Is(err, speech.ErrNotConfigured) {
			log.Printf("Warning: OPENAI_API_KEY not set, transcription and TTS disabled")
		} else {
			log.Fatal("Failed to initialize speech client:", err)
		}
	} else {
		audioOpts = append(audioOpts,
			service.AudioWithTranscriber(speechClient),
			service.AudioWithSynthesizer(speechClient),
		)
	}
	audioService := service.NewAudioService(audioOpts...)

	// Initialize services
	simplificationService := service.NewSimplificationService(
		service.SimplifyWithProvider(provider),
	)
	chatService := service.NewChatService(
		service.ChatWithProvider(provider),
		service.ChatWithSearch(unifiedSearch),
		service.ChatWithAudioService(audioService),
		service.ChatWithQueryRepository(queryRepo),
	)
	legislationService := service.NewLegislationService(
		service.LegislationWithRepository(legislationRepo),
		service.LegislationWithTrendingSource(camara),
		service.LegislationWithBillSource(lexml),
		service.LegislationWithGazetteSource(queridoDiario),
		service.LegislationWithCatalogSource(lexml),
		service.LegislationWithSimplifier(simplificationService),
	)

	// Sweep expired audio files in the background
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go audioService.RunCleanupLoop(cleanupCtx, time.Hour)

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(chatService)
	searchHandler := handlers.NewSearchHandler(unifiedSearch)
	simplificationHandler := handlers.NewSimplificationHandler(simplificationService, audioService)
	audioHandler := handlers.NewAudioHandler(audioService)
	legislationHandler := handlers.NewLegislationHandler(legislationService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteRepo, userRepo)
	queryHandler := handlers.NewQueryHandler(queryRepo)

	// Setup Gin router
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     settings.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api/v1")
	{
		// Chat endpoints
		api.POST("/chat", chatHandler.Chat)
		api.GET("/chat/suggestions", chatHandler.Suggestions)

		// Search endpoints
		api.POST("/search", searchHandler.Search)
		api.GET("/search/autocomplete", searchHandler.Autocomplete)
		api.GET("/search/filters", searchHandler.Filters)

		// Simplification endpoints
		api.POST("/simplification", simplificationHandler.Simplify)
		api.POST("/simplification/batch", simplificationHandler.SimplifyBatch)

		// Audio endpoints
		api.POST("/audio/transcribe", audioHandler.Transcribe)
		api.POST("/audio/tts", audioHandler.TTS)
		api.POST("/audio/upload", audioHandler.Upload)
		api.GET("/audio/:filename", audioHandler.Download)

		// Legislation endpoints
		api.GET("/legislation/trending", legislationHandler.Trending)
		api.GET("/legislation/lexml/search", legislationHandler.CatalogSearch)
		api.GET("/legislation/municipal/:state/:city", legislationHandler.Municipal)
		api.GET("/legislation/category/:category", legislationHandler.ByCategory)
		api.GET("/legislation/:id", legislationHandler.Get)
		api.POST("/legislation/:id/simplify", legislationHandler.Simplify)

		// Favorite endpoints
		api.POST("/favorites", favoriteHandler.Create)
		api.GET("/favorites", favoriteHandler.List)
		api.DELETE("/favorites/:id", favoriteHandler.Delete)

		// Query history endpoints
		api.GET("/queries", queryHandler.ListRecent)
		api.GET("/queries/user/:user_id", queryHandler.ListByUser)
	}

	log.Printf("Server starting on port %s", settings.Port)
	if err := r.Run(":" + settings.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initPostgres(connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Postgres connection established")
	return pool, nil
}
