// Package server exposes the parser over HTTP: post raw remittance
// text, get the hierarchical or flattened projection back.
package server

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/oarkflow/log"

	"github.com/oarkflow/edi835/pkg/config"
	"github.com/oarkflow/edi835/pkg/remit"
)

// Server wraps the fiber app and a content-addressed document cache:
// reposting identical remittance text reuses the parsed document.
type Server struct {
	app   *fiber.App
	cache *ristretto.Cache
	cfg   config.ServerConfig
}

// FlattenResponse is the JSON shape of the flattened projection.
type FlattenResponse struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// New builds the HTTP server around the given settings.
func New(cfg config.ServerConfig) (*Server, error) {
	entries := cfg.CacheEntries
	if entries <= 0 {
		entries = 1024
	}
	maxCost := cfg.CacheMaxCost
	if maxCost <= 0 {
		maxCost = entries
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: entries * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName: "edi835-api",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	s := &Server{app: app, cache: cache, cfg: cfg}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.app.Use(cors.New())
	s.app.Use(fiberlogger.New())

	s.app.Get("/api/health", s.healthHandler)
	s.app.Post("/api/parse", s.parseHandler)
	s.app.Post("/api/flatten", s.flattenHandler)
}

func (s *Server) healthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) parseHandler(c *fiber.Ctx) error {
	ts, err := s.document(c.Body())
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(ts.Hierarchy())
}

func (s *Server) flattenHandler(c *fiber.Ctx) error {
	ts, err := s.document(c.Body())
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	table, err := ts.Flatten()
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(FlattenResponse{Columns: table.Columns, Rows: table.Rows})
}

// document parses the request body, serving repeated content from the
// cache keyed by its hash.
func (s *Server) document(body []byte) (*remit.TransactionSet, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("empty request body")
	}
	key := fmt.Sprintf("%x", sha256.Sum256(body))
	if cached, found := s.cache.Get(key); found {
		return cached.(*remit.TransactionSet), nil
	}
	ts, err := remit.Parse(string(body))
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, ts, 1)
	return ts, nil
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the configured address.
func (s *Server) Listen() error {
	logger := &log.DefaultLogger
	logger.Info().Str("address", s.cfg.Address).Msg("edi835 API listening")
	return s.app.Listen(s.cfg.Address)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
