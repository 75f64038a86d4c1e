package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/signal-subscription/internal/container"
	"github.com/oksasatya/signal-subscription/internal/interface/middleware"
)

// NewEngine builds the gin engine with global middleware and every module
// registered.
func NewEngine(ctr *container.Container) *gin.Engine {
	cfg := ctr.Config
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.Recovery(ctr.Logger, !cfg.IsProduction()))
	r.Use(middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := NewRegistry(r)
	InitModules(reg, ctr)
	reg.RegisterAll()
	return r
}
