package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"animatic/renderer"
	"animatic/timeline"
)

// RegisterAnimationRoutes registers the scene rendering endpoint.
func (s *Server) RegisterAnimationRoutes(r *gin.Engine) {
	r.POST("/animations", s.handleCreateAnimation)
}

// AnimationRequest submits scene code directly, or a prompt for the
// configured code generator to expand.
type AnimationRequest struct {
	Code   string `json:"code"`
	Prompt string `json:"prompt"`
}

// AnimationResponse returns the rendered scenes and the timeline items they
// were ingested as.
type AnimationResponse struct {
	AnimationID string                `json:"animationId"`
	Videos      []renderer.SceneVideo `json:"videos"`
	MediaFiles  []timeline.MediaFile  `json:"mediaFiles"`
}

// handleCreateAnimation renders scene code and ingests the results as
// timeline media.
// POST /animations
func (s *Server) handleCreateAnimation(c *gin.Context) {
	if s.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "renderer not configured"})
		return
	}

	var req AnimationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := req.Code
	if code == "" {
		if req.Prompt == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code or prompt is required"})
			return
		}
		if s.generator == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no code generator configured"})
			return
		}
		generated, err := s.generator.GenerateSceneCode(c.Request.Context(), req.Prompt)
		if err != nil {
			s.logger.Error().Err(err).Msg("code generation failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "code generation failed"})
			return
		}
		code = generated
	}

	result, err := s.runner.Render(c.Request.Context(), code)
	if err != nil {
		s.logger.Error().Err(err).Msg("render failed")
		switch {
		case errors.Is(err, renderer.ErrNoScenes):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, renderer.ErrRenderTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		}
		return
	}

	resp := AnimationResponse{AnimationID: result.AnimationID, Videos: result.Videos}
	if s.uploader != nil && s.prober != nil {
		files, err := renderer.IngestScenes(c.Request.Context(), s.prober, s.uploader, result)
		if err != nil {
			s.logger.Error().Err(err).Str("animation", result.AnimationID).Msg("scene ingestion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "scene ingestion failed"})
			return
		}
		resp.MediaFiles = files
	}

	c.JSON(http.StatusOK, resp)
}
