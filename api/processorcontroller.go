package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"animatic/processor"
	"animatic/renderer"
	"animatic/timeline"
)

// RegisterProcessorRoutes registers the timeline export endpoint.
func (s *Server) RegisterProcessorRoutes(r *gin.Engine) {
	g := r.Group("/processor")
	g.POST("/export", s.handleExport)
}

// ExportRequest carries the timeline document to compose.
type ExportRequest struct {
	Payload *timeline.ProjectState `json:"payload" binding:"required"`
}

// ExportResponse reports the published export and any clips that were
// skipped along the way.
type ExportResponse struct {
	Success  bool                    `json:"success"`
	Message  string                  `json:"message,omitempty"`
	S3URL    string                  `json:"s3Url,omitempty"`
	Key      string                  `json:"key,omitempty"`
	Failures []processor.ClipFailure `json:"failures,omitempty"`
}

// handleExport composes the timeline into one video and uploads it.
// POST /processor/export
func (s *Server) handleExport(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.processor.Process(c.Request.Context(), req.Payload)
	if err != nil {
		s.logger.Error().Err(err).Str("project", req.Payload.ID).Msg("export failed")
		c.JSON(exportStatus(err), ExportResponse{Success: false, Message: err.Error()})
		return
	}
	// The upload is the last step; the local file is not needed after it.
	defer os.Remove(result.OutputPath)

	if s.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, ExportResponse{
			Success: false,
			Message: "no upload target configured",
		})
		return
	}

	key := fmt.Sprintf("%s/final.mp4", req.Payload.ID)
	url, err := s.uploader.UploadFile(c.Request.Context(), key, result.OutputPath, "video/mp4")
	if err != nil {
		s.logger.Error().Err(err).Str("project", req.Payload.ID).Msg("upload failed")
		c.JSON(http.StatusInternalServerError, ExportResponse{Success: false, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ExportResponse{
		Success:  true,
		Message:  "video processed and uploaded",
		S3URL:    url,
		Key:      key,
		Failures: result.Failures,
	})
}

// exportStatus maps pipeline failure classes to HTTP statuses.
func exportStatus(err error) int {
	switch {
	case errors.Is(err, processor.ErrEmptyTimeline):
		return http.StatusBadRequest
	case errors.Is(err, processor.ErrNoProcessableMedia):
		return http.StatusUnprocessableEntity
	case errors.Is(err, renderer.ErrRenderTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
