// Package handlers exposes the wardrobe services over HTTP with gin.
package handlers

import (
	"net/http"

	"layer-backend/metrics"
	"layer-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services are the application services the router dispatches to
type Services struct {
	Auth      *service.AuthService
	OAuth     *service.OAuthService
	Wardrobe  *service.WardrobeService
	Stylist   *service.StylistService
	Outfits   *service.OutfitService
	Planner   *service.PlannerService
	Community *service.CommunityService
}

// RouterConfig carries the HTTP-level settings
type RouterConfig struct {
	Logger        *zap.Logger
	Metrics       *metrics.Collector
	CORSOrigins   []string
	MaxImageBytes int64
}

// NewRouter builds the gin engine with middleware and every route
func NewRouter(svc Services, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(callbackTemplate)
	if cfg.MaxImageBytes > 0 {
		r.MaxMultipartMemory = cfg.MaxImageBytes
	}

	r.Use(
		RequestLogger(cfg.Logger),
		Recovery(),
		CORS(cfg.CORSOrigins),
		Metrics(cfg.Metrics),
	)

	authHandler := NewAuthHandler(svc.Auth, svc.OAuth)
	wardrobeHandler := NewWardrobeHandler(svc.Wardrobe, cfg.MaxImageBytes)
	stylistHandler := NewStylistHandler(svc.Stylist)
	outfitHandler := NewOutfitHandler(svc.Outfits)
	plannerHandler := NewPlannerHandler(svc.Planner)
	communityHandler := NewCommunityHandler(svc.Community)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// OAuth popup lands here, outside /api
	r.GET(callbackPath, authHandler.OAuthCallback)

	api := r.Group("/api")
	{
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/google/url", authHandler.GoogleURL)

		api.GET("/community", communityHandler.ListPosts)
		api.POST("/community", communityHandler.CreatePost)
	}

	authed := api.Group("", RequireAuth(svc.Auth))
	{
		authed.GET("/me", authHandler.Me)
		authed.PUT("/me/plan", authHandler.UpdatePlan)
		authed.PUT("/me/styles", authHandler.UpdateStyles)

		// Wardrobe
		authed.GET("/items", wardrobeHandler.ListItems)
		authed.POST("/items", wardrobeHandler.AddItem)
		authed.POST("/items/analyze", wardrobeHandler.AnalyzeImage)
		authed.DELETE("/items/:id", wardrobeHandler.DeleteItem)
		authed.POST("/items/:id/wear", wardrobeHandler.LogWear)
		authed.GET("/items/:id/image", wardrobeHandler.GetImage)

		// Stylist
		authed.POST("/stylist/suggest", stylistHandler.Suggest)
		authed.POST("/stylist/gaps", stylistHandler.Gaps)
		authed.POST("/stylist/style-dna", stylistHandler.StyleDNA)
		authed.POST("/stylist/chat", stylistHandler.Chat)

		// Outfits and folders
		authed.GET("/outfits", outfitHandler.ListOutfits)
		authed.POST("/outfits", outfitHandler.SaveOutfit)
		authed.POST("/outfits/from-feed/:postId", outfitHandler.SaveFromFeed)
		authed.DELETE("/outfits/:id", outfitHandler.DeleteOutfit)
		authed.POST("/outfits/:id/favorite", outfitHandler.ToggleFavorite)
		authed.PUT("/outfits/:id/folder", outfitHandler.MoveToFolder)
		authed.GET("/folders", outfitHandler.ListFolders)
		authed.POST("/folders", outfitHandler.CreateFolder)
		authed.DELETE("/folders/:id", outfitHandler.DeleteFolder)

		// Planner
		authed.GET("/planner", plannerHandler.GetWeek)
		authed.PUT("/planner/:day", plannerHandler.AssignDay)
		authed.DELETE("/planner/:day", plannerHandler.ClearDay)
		authed.POST("/planner/auto", plannerHandler.AutoSchedule)
	}

	return r
}
