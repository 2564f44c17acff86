// Package admin exposes a small HTTP status plane for a running fish link:
// health, readiness, Prometheus metrics, and link state.
package admin

import (
	"net/http"
	"time"

	"github.com/danmuck/fishctl/internal/fish/link"
	"github.com/danmuck/fishctl/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Server struct {
	ID        string
	Link      *link.Conn
	StartedAt time.Time

	router *gin.Engine
}

func New(id string, lnk *link.Conn, corsOrigins []string) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetrics(id))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Server{
		ID:        id,
		Link:      lnk,
		StartedAt: time.Now(),
		router:    r,
	}
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.StartedAt).String(),
			"service": s.ID,
			"version": "0.0.1",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/ready", func(c *gin.Context) {
		ready := s.Link != nil && s.Link.State() == link.StateConnected
		c.JSON(http.StatusOK, gin.H{
			"ready":   ready,
			"uptime":  time.Since(s.StartedAt).String(),
			"service": s.ID,
		})
	})

	s.router.GET("/link", func(c *gin.Context) {
		if s.Link == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no link configured"})
			return
		}
		stats := s.Link.Stats()
		c.JSON(http.StatusOK, gin.H{
			"state":    s.Link.State().String(),
			"port":     s.Link.Port(),
			"sent":     stats.Sent,
			"received": stats.Received,
		})
	})
}

func (s *Server) Serve(addr string) error {
	s.RegisterRoutes()
	return s.router.Run(addr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
