// Package api exposes the composition pipeline over HTTP.
package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"animatic/processor"
	"animatic/renderer"
)

// Server bundles the services the controllers depend on.
type Server struct {
	logger    zerolog.Logger
	processor *processor.VideoProcessor
	runner    *renderer.Runner
	prober    renderer.Prober
	uploader  ExportUploader
	generator renderer.CodeGenerator
}

// ExportUploader publishes finished files. Nil disables upload-dependent
// endpoints gracefully.
type ExportUploader interface {
	UploadFile(ctx context.Context, key, localPath, contentType string) (string, error)
}

// NewServer wires the controllers' dependencies. generator may be nil when no
// LLM backend is configured; prompt-based rendering then returns 503.
func NewServer(logger zerolog.Logger, proc *processor.VideoProcessor, runner *renderer.Runner, prober renderer.Prober, uploader ExportUploader, generator renderer.CodeGenerator) *Server {
	return &Server{
		logger:    logger.With().Str("component", "api").Logger(),
		processor: proc,
		runner:    runner,
		prober:    prober,
		uploader:  uploader,
		generator: generator,
	}
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	s.RegisterHealthRoutes(r)
	s.RegisterProcessorRoutes(r)
	s.RegisterAnimationRoutes(r)
	return r
}
