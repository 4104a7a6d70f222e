// Package server exposes the graphic-field codec over HTTP so label
// pipelines can convert images without linking the library.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/danmuck/zplctl/internal/observability"
)

type Server struct {
	logger    zerolog.Logger
	router    *gin.Engine
	startedAt time.Time
}

func New(logger zerolog.Logger, corsOrigins []string) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.RequestLogger(logger))
	router.Use(observability.RequestMetricsMiddleware())
	if len(corsOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{"GET", "POST"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	s := &Server{
		logger:    logger,
		router:    router,
		startedAt: time.Now(),
	}
	s.registerRoutes()
	return s
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Run(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("bridge listening")
	return s.router.Run(addr)
}
