// Package server exposes the liveness and status HTTP endpoints served
// next to the chat transport.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/useglowbot/glowbot/catalog"
	"github.com/useglowbot/glowbot/internal/profile"
	"github.com/useglowbot/glowbot/store"
)

// Server serves /healthz and /api/status.
type Server struct {
	echoServer *echo.Echo
	profile    *profile.Profile
	store      *store.Store
	index      *catalog.Index
}

type statusResponse struct {
	Version      string `json:"version"`
	Mode         string `json:"mode"`
	Tags         int    `json:"tags"`
	Brands       int    `json:"brands"`
	ProductTypes int    `json:"product_types"`
	Categories   int    `json:"categories"`
	KnownUsers   int    `json:"known_users"`
}

// NewServer creates the health server over the given store and index.
func NewServer(profile *profile.Profile, st *store.Store, index *catalog.Index) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echoServer: e,
		profile:    profile,
		store:      st,
		index:      index,
	}
	e.GET("/healthz", s.healthz)
	e.GET("/api/status", s.status)
	return s
}

func (s *Server) healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) status(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{
		Version:      s.profile.Version,
		Mode:         s.profile.Mode,
		Tags:         len(s.index.Tags()),
		Brands:       len(s.index.Brands()),
		ProductTypes: len(s.index.ProductTypes()),
		Categories:   len(s.index.Categories()),
		KnownUsers:   s.store.Count(),
	})
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.profile.Addr, s.profile.Port)
	if err := s.echoServer.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echoServer.Shutdown(ctx)
}
