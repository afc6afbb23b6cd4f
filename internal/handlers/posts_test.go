package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lesmnif/echoes/internal/postgen"
	"github.com/lesmnif/echoes/internal/services"
	"github.com/lesmnif/echoes/internal/types"
)

type stubRasterizer struct {
	png      []byte
	err      error
	rendered []postgen.Slide
}

func (s *stubRasterizer) RenderPost(post postgen.Post) ([]services.RenderedImage, error) {
	var images []services.RenderedImage
	for _, slide := range post.Slides {
		images = append(images, services.RenderedImage{SlideID: slide.ID, PNG: s.png})
	}
	return images, s.err
}

func (s *stubRasterizer) RenderSlide(slide postgen.Slide) ([]byte, error) {
	s.rendered = append(s.rendered, slide)
	return s.png, s.err
}

func postsRouter(t *testing.T, svc services.GenerationService, r services.Rasterizer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ph := NewPostsHandler(svc, r, testLogger(t))
	router.GET("/api/all-posts", ph.AllPosts)
	router.GET("/api/posts/:id/images/:idx", ph.PostImage)
	return router
}

func storedGeneration(t *testing.T, id uuid.UUID) *types.AIGeneration {
	t.Helper()
	return &types.AIGeneration{
		ID:             id,
		AIResponse:     []byte(doneResultJSON),
		ModelUsed:      "gpt-4.1",
		GenerationType: "motivational_post",
	}
}

func TestAllPosts(t *testing.T) {
	id := uuid.New()
	svc := &stubGenService{
		log:   testLogger(t),
		posts: []*types.AIGeneration{storedGeneration(t, id)},
	}
	router := postsRouter(t, svc, &stubRasterizer{})

	req := httptest.NewRequest("GET", "/api/all-posts", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Posts []types.AIGeneration `json:"posts"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Posts) != 1 || resp.Posts[0].ID != id {
		t.Fatalf("posts = %+v", resp.Posts)
	}
}

func TestPostImage(t *testing.T) {
	id := uuid.New()
	svc := &stubGenService{
		log:  testLogger(t),
		byID: map[uuid.UUID]*types.AIGeneration{id: storedGeneration(t, id)},
	}
	raster := &stubRasterizer{png: []byte("png-bytes")}
	router := postsRouter(t, svc, raster)

	req := httptest.NewRequest("GET", "/api/posts/"+id.String()+"/images/2", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != "attachment; filename=slide-2.png" {
		t.Fatalf("content disposition = %q", cd)
	}
	if len(raster.rendered) != 1 || raster.rendered[0].ID != 2 {
		t.Fatalf("rendered = %+v", raster.rendered)
	}
}

func TestPostImageBadRequests(t *testing.T) {
	id := uuid.New()
	svc := &stubGenService{
		log:  testLogger(t),
		byID: map[uuid.UUID]*types.AIGeneration{id: storedGeneration(t, id)},
	}
	router := postsRouter(t, svc, &stubRasterizer{png: []byte("x")})

	tests := []struct {
		name string
		path string
		want int
	}{
		{"bad uuid", "/api/posts/not-a-uuid/images/1", http.StatusBadRequest},
		{"bad index", "/api/posts/" + id.String() + "/images/zero", http.StatusBadRequest},
		{"index too small", "/api/posts/" + id.String() + "/images/0", http.StatusBadRequest},
		{"index past end", "/api/posts/" + id.String() + "/images/3", http.StatusNotFound},
		{"unknown post", "/api/posts/" + uuid.NewString() + "/images/1", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}
