package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lesmnif/echoes/internal/pkg/logger"
	"github.com/lesmnif/echoes/internal/postgen"
	"github.com/lesmnif/echoes/internal/services"
)

type PostsHandler struct {
	genService services.GenerationService
	rasterizer services.Rasterizer
	log        *logger.Logger
}

func NewPostsHandler(genService services.GenerationService, rasterizer services.Rasterizer, log *logger.Logger) *PostsHandler {
	return &PostsHandler{
		genService: genService,
		rasterizer: rasterizer,
		log:        log.With("handler", "PostsHandler"),
	}
}

func (ph *PostsHandler) AllPosts(c *gin.Context) {
	posts, err := ph.genService.ListPosts(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// PostImage renders one slide of a persisted generation to PNG. Slides are
// addressed 1-based, matching their ids.
func (ph *PostsHandler) PostImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil || idx < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slide index"})
		return
	}

	gen, err := ph.genService.GetPost(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	var result postgen.GenerationResult
	if err := json.Unmarshal(gen.AIResponse, &result); err != nil {
		ph.log.Error("Stored generation is not decodable", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stored generation is not decodable"})
		return
	}
	if idx > len(result.Post.Slides) {
		c.JSON(http.StatusNotFound, gin.H{"error": "slide not found"})
		return
	}

	png, err := ph.rasterizer.RenderSlide(result.Post.Slides[idx-1])
	if err != nil {
		ph.log.Error("Failed to render slide", "id", id, "slide", idx, "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=slide-%d.png", idx))
	c.Data(http.StatusOK, "image/png", png)
}
