package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/akarpov/roulette/internal/adapters/ws"
	"github.com/akarpov/roulette/internal/app"
	"github.com/akarpov/roulette/internal/config"
)

func SetupRouter(cfg *config.Config, svc *app.Service) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	h := &Handlers{Service: svc, Config: cfg}
	events := &ws.Controller{Service: svc, KeepAlive: cfg.KeepAlive}

	api := r.Group("/api")
	api.POST("/register", h.register)
	api.POST("/find", h.findPartner)
	api.POST("/next", h.nextPartner)
	api.POST("/leave", h.leave)
	api.POST("/signal", h.signal)
	api.GET("/events", h.events)
	api.GET("/ws/events", events.Handle)
	api.GET("/config", h.clientConfig)

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}
