package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"docuchat/internal/ai"
	appsvc "docuchat/internal/app"
	"docuchat/internal/bootstrap"
	"docuchat/internal/classify"
	"docuchat/internal/extract"
	"docuchat/internal/history"
	"docuchat/internal/ocr"
	"docuchat/internal/platform/rabbitmq"
	"docuchat/internal/search"
	"docuchat/internal/transport/http/handler"
	"docuchat/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	chatCfg := ai.ChatConfig{
		BaseURL:   app.Config.LLM.BaseURL,
		APIKey:    app.Config.LLM.APIKey,
		Model:     app.Config.LLM.Model,
		MaxTokens: app.Config.LLM.MaxTokens,
	}
	rawClient := ai.NewOpenAICompatibleClient()
	completion := ai.NewCompletionClient(
		rawClient,
		app.Config.LLM.RetryMaxAttempts,
		time.Duration(app.Config.LLM.RetryBaseMS)*time.Millisecond,
		time.Duration(app.Config.LLM.RetryStepMS)*time.Millisecond,
	)

	var ocrClient ocr.Client
	if app.Config.OCR.Enabled {
		ocrClient = ocr.NewHTTPClient(ocr.Config{
			BaseURL:         app.Config.OCR.BaseURL,
			APIKey:          app.Config.OCR.APIKey,
			PollInterval:    time.Duration(app.Config.OCR.PollIntervalMS) * time.Millisecond,
			PollMaxAttempts: app.Config.OCR.PollMaxAttempts,
		})
	}

	var searcher search.Client
	if app.Config.Search.Enabled {
		searcher = search.NewHTTPClient(search.Config{
			BaseURL: app.Config.Search.BaseURL,
			APIKey:  app.Config.Search.APIKey,
		})
	}

	extractor := extract.New(ocrClient, app.Logger)
	classifier := classify.New(rawClient, chatCfg, app.Config.Classifier.AskModel, app.Logger)
	turnStore := history.NewRedisStore(app.Redis, time.Duration(app.Config.History.TTLSeconds)*time.Second)
	publisher := rabbitmq.NewRecordPublisher(app.MQConn, app.Config.RabbitMQ.ArtifactRecordQueue)

	pipeline := appsvc.NewPipelineService(appsvc.PipelineDeps{
		Extractor:  extractor,
		Searcher:   searcher,
		Completion: completion,
		Classifier: classifier,
		Store:      app.ArtifactStore,
		Turns:      turnStore,
		Publisher:  publisher,
		ChatCfg:    chatCfg,
		SearchTopK: app.Config.Search.TopK,
		MaxTurns:   app.Config.History.MaxTurns,
		Logger:     app.Logger,
	})

	chatHandler := handler.NewChatHandler(pipeline)
	artifactHandler := handler.NewArtifactHandler(app.ArtifactStore)

	sessionTTL := time.Duration(app.Config.Session.CookieTTLMinute) * time.Minute

	v1 := router.Group("/api/v1")
	chatGroup := v1.Group("/chat")
	chatGroup.Use(middleware.Session(app.Config.Session.CookieSecret, sessionTTL))
	chatGroup.POST("/messages", chatHandler.Submit)
	chatGroup.GET("/history", chatHandler.History)
	chatGroup.POST("/reset", chatHandler.Reset)

	v1.GET("/artifacts/:name", artifactHandler.Download)

	return router
}
