package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lesmnif/echoes/internal/pkg/logger"
	"github.com/lesmnif/echoes/internal/postgen"
	"github.com/lesmnif/echoes/internal/services"
)

type GenerationHandler struct {
	genService services.GenerationService
	log        *logger.Logger
}

func NewGenerationHandler(genService services.GenerationService, log *logger.Logger) *GenerationHandler {
	return &GenerationHandler{genService: genService, log: log.With("handler", "GenerationHandler")}
}

// GeneratePost starts a streaming generation and republishes every reducer
// snapshot to the caller as SSE: `partial` events while the object grows,
// then exactly one `done` or `error`.
func (gh *GenerationHandler) GeneratePost(c *gin.Context) {
	var req services.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	stream, err := gh.genService.Generate(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub, unsubscribe := stream.Session.Subscribe()
	defer unsubscribe()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			// Consumer teardown: abort the provider call and persist nothing.
			// A partial that never passed terminal validation is not a result.
			gh.log.Debug("Client disconnected mid-stream, cancelling generation")
			stream.Session.Cancel()
			return
		case snap, ok := <-sub:
			if !ok {
				stream.Finalize()
				return
			}
			if done := gh.writeSnapshot(c, flusher, snap); done {
				stream.Finalize()
				return
			}
		}
	}
}

// writeSnapshot emits one SSE event and reports whether it was terminal.
func (gh *GenerationHandler) writeSnapshot(c *gin.Context, flusher http.Flusher, snap postgen.Snapshot) bool {
	switch snap.Phase {
	case postgen.PhaseCompleted:
		writeSSE(c, "done", snap.Result)
		flusher.Flush()
		return true
	case postgen.PhaseFailed:
		msg := "generation failed"
		if snap.Err != nil {
			msg = snap.Err.Error()
		}
		writeSSE(c, "error", gin.H{"message": msg})
		flusher.Flush()
		return true
	default:
		writeSSE(c, "partial", snap.Partial)
		flusher.Flush()
		return false
	}
}

func writeSSE(c *gin.Context, event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, raw)
}
