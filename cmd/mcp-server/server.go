package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/njchilds90/expressivo"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Server is the HTTP tool server.
type Server struct {
	app     *fiber.App
	metrics *Metrics
	tools   map[string]bool
}

func newServer(m *Metrics) *Server {
	srv := &Server{metrics: m, tools: map[string]bool{}}
	for _, name := range expressivo.ToolNames() {
		srv.tools[name] = true
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             maxBodyBytes,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Errorf("panic in %s: %v\n%s", c.Path(), e, debug.Stack())
		},
	}))

	app.Post("/tool", srv.tool)
	app.Get("/schema", srv.schema)
	app.Get("/health", srv.health)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	srv.app = app
	return srv
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// errorHandler reports every failure as a JSON object. Errors that are not
// *fiber.Error, such as recovered panics, are not shown to the client.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}

func (s *Server) tool(c *fiber.Ctx) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()

	var req expressivo.ToolRequest
	if err := dec.Decode(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if dec.More() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON: trailing data")
	}

	start := time.Now()
	resp := expressivo.HandleToolCall(req)
	s.metrics.ObserveToolCall(s.toolLabel(req.Tool), resp.Error == "", time.Since(start))
	if resp.Error != "" {
		log.Debugf("tool %s: %s", req.Tool, resp.Error)
	}
	return c.JSON(resp)
}

// toolLabel bounds the label values of the tool call metrics.
func (s *Server) toolLabel(name string) string {
	if s.tools[name] {
		return name
	}
	return "unknown"
}

func (s *Server) schema(c *fiber.Ctx) error {
	c.Type("json")
	return c.SendString(expressivo.MCPToolSpec())
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
