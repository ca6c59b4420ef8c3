// Package api provides the HTTP handlers and middleware.
package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/compra-app/compra-go/aggregate"
	"github.com/compra-app/compra-go/analytics"
	"github.com/compra-app/compra-go/cache"
	"github.com/compra-app/compra-go/config"
	"github.com/compra-app/compra-go/models"
	"github.com/compra-app/compra-go/platform"
	"github.com/compra-app/compra-go/store"
	"github.com/compra-app/compra-go/targeting"
)

// ScriptTagRegistrar is the slice of the platform client the publish
// endpoint depends on.
type ScriptTagRegistrar interface {
	Register(ctx context.Context, store *models.Store, scriptURL string) (*platform.ScriptTag, error)
}

// Server bundles the handler dependencies. Components receive their storage
// explicitly; nothing here reaches for globals.
type Server struct {
	DB         *store.Database
	Evaluator  *targeting.Evaluator
	Aggregator *aggregate.Aggregator
	Engine     *analytics.Engine
	Cache      *cache.Manager
	ScriptTags ScriptTagRegistrar

	// Host is the public base URL baked into generated scripts.
	Host        string
	Development bool
}

func NewServer(db *store.Database, cacheManager *cache.Manager, scriptTags ScriptTagRegistrar) *Server {
	return &Server{
		DB:          db,
		Evaluator:   targeting.NewEvaluator(db.Surveys),
		Aggregator:  aggregate.NewAggregator(db),
		Engine:      analytics.NewEngine(db),
		Cache:       cacheManager,
		ScriptTags:  scriptTags,
		Host:        config.Host,
		Development: config.Development,
	}
}

// RegisterRoutes attaches every route to the router.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.Use(RequestID())

	r.POST("/api/auth/login", s.HandleLogin)

	// Storefront-facing routes, no auth.
	r.GET("/api/active-surveys", s.HandleActiveSurveys)
	r.POST("/api/survey-responses", s.HandleSubmitResponse)
	r.POST("/api/surveys/:id/view", s.HandleRecordView)
	r.GET("/surveys/:id/script.js", s.HandleSurveyScript)

	// Legacy checkout-extension routes, kept as thin aliases over the
	// canonical evaluator and aggregator.
	r.GET("/api/survey", s.HandleLegacyFetchSurvey)
	r.POST("/api/response", s.HandleLegacySubmitResponse)

	// Merchant dashboard routes.
	admin := r.Group("/api", RequireAuth())
	admin.GET("/surveys", s.HandleListSurveys)
	admin.POST("/surveys", s.HandleCreateSurvey)
	admin.PATCH("/surveys/:id/status", s.HandleUpdateStatus)
	admin.DELETE("/surveys/:id", s.HandleDeleteSurvey)
	admin.GET("/surveys/:id/block", s.HandleSurveyBlock)
	admin.POST("/surveys/:id/publish", s.HandlePublishSurvey)
	admin.GET("/surveys/:id/analytics", s.HandleSurveyAnalytics)
	admin.GET("/surveys/:id/sentiment-analysis", s.HandleSentimentAnalysis)
	admin.GET("/surveys/:id/correlation-analysis", s.HandleCorrelationAnalysis)
	admin.GET("/surveys/:id/completion-prediction", s.HandleCompletionPrediction)
	admin.GET("/surveys/:id/user-journey", s.HandleUserJourney)
}
