package services

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/sync/errgroup"

	"github.com/lesmnif/echoes/internal/config"
	pkgerrors "github.com/lesmnif/echoes/internal/pkg/errors"
	"github.com/lesmnif/echoes/internal/pkg/logger"
	"github.com/lesmnif/echoes/internal/postgen"
)

// Instagram portrait ratio (4:5).
const (
	slideWidth  = 1080
	slideHeight = 1350
	slideMargin = 100
)

// RenderedImage is one slide rendered to PNG.
type RenderedImage struct {
	SlideID int
	PNG     []byte
}

type Rasterizer interface {
	// RenderPost renders every slide of a post. A slide that fails to
	// render is logged and skipped; the others still come back.
	RenderPost(post postgen.Post) ([]RenderedImage, error)
	RenderSlide(slide postgen.Slide) ([]byte, error)
}

type rasterizer struct {
	log *logger.Logger
	// Parsed fonts are immutable; each render builds its own faces from
	// them, so slides can rasterize in parallel.
	fonts map[string]*truetype.Font
}

var fontSizeTokens = map[string]float64{
	"text-sm":   14,
	"text-base": 16,
	"text-lg":   20,
	"text-xl":   24,
	"text-2xl":  32,
	"text-3xl":  48,
	"text-4xl":  64,
	"text-5xl":  80,
	"text-6xl":  96,
	"text-7xl":  112,
}

const defaultFontSizePx = 48

// NewRasterizer parses the slide fonts once up front. The bundled Go fonts
// are the default; POST_FONT_DIR may override any of them with
// <family>.ttf / <family>-bold.ttf files.
func NewRasterizer(cfg *config.Config, log *logger.Logger) (Rasterizer, error) {
	r := &rasterizer{
		log:   log.With("service", "Rasterizer"),
		fonts: make(map[string]*truetype.Font),
	}

	defaults := map[string][]byte{
		fontKey(postgen.FontSerif, false):     goregular.TTF,
		fontKey(postgen.FontSerif, true):      gobold.TTF,
		fontKey(postgen.FontSans, false):      goregular.TTF,
		fontKey(postgen.FontSans, true):       gobold.TTF,
		fontKey(postgen.FontMonospace, false): gomono.TTF,
		fontKey(postgen.FontMonospace, true):  gomonobold.TTF,
	}
	for key, ttf := range defaults {
		parsed, err := truetype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("%w: parse bundled font %s: %v", pkgerrors.ErrRenderUnavailable, key, err)
		}
		r.fonts[key] = parsed
	}

	if cfg.FontDir != "" {
		for _, family := range []string{postgen.FontSerif, postgen.FontSans, postgen.FontMonospace} {
			for _, bold := range []bool{false, true} {
				name := family + ".ttf"
				if bold {
					name = family + "-bold.ttf"
				}
				raw, err := os.ReadFile(filepath.Join(cfg.FontDir, name))
				if err != nil {
					continue
				}
				parsed, err := truetype.Parse(raw)
				if err != nil {
					r.log.Warn("Ignoring unparseable font override", "file", name, "error", err)
					continue
				}
				r.fonts[fontKey(family, bold)] = parsed
			}
		}
	}

	return r, nil
}

func fontKey(family string, bold bool) string {
	if bold {
		return family + "-bold"
	}
	return family
}

func (r *rasterizer) face(family string, bold bool, size float64) (font.Face, error) {
	switch family {
	case postgen.FontSerif, postgen.FontSans, postgen.FontMonospace:
	default:
		family = postgen.FontSans
	}

	parsed, ok := r.fonts[fontKey(family, bold)]
	if !ok {
		return nil, fmt.Errorf("%w: no font for %s", pkgerrors.ErrRenderUnavailable, fontKey(family, bold))
	}
	return truetype.NewFace(parsed, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

func (r *rasterizer) RenderPost(post postgen.Post) ([]RenderedImage, error) {
	rendered := make([]*RenderedImage, len(post.Slides))

	var g errgroup.Group
	g.SetLimit(2)
	for i, slide := range post.Slides {
		i, slide := i, slide
		g.Go(func() error {
			png, err := r.RenderSlide(slide)
			if err != nil {
				// One broken slide must not sink the others.
				r.log.Error("Failed to render slide", "slide", slide.ID, "error", err)
				return nil
			}
			rendered[i] = &RenderedImage{SlideID: slide.ID, PNG: png}
			return nil
		})
	}
	_ = g.Wait()

	images := make([]RenderedImage, 0, len(post.Slides))
	for _, img := range rendered {
		if img != nil {
			images = append(images, *img)
		}
	}
	if len(images) == 0 && len(post.Slides) > 0 {
		return nil, fmt.Errorf("%w: no slide rendered", pkgerrors.ErrRenderUnavailable)
	}
	return images, nil
}

func (r *rasterizer) RenderSlide(slide postgen.Slide) ([]byte, error) {
	bg, err := parseHexColor(slide.BackgroundColor)
	if err != nil {
		return nil, fmt.Errorf("background color %q: %w", slide.BackgroundColor, err)
	}
	fg, err := parseHexColor(slide.TextColor)
	if err != nil {
		return nil, fmt.Errorf("text color %q: %w", slide.TextColor, err)
	}

	titleSize := tokenFontSize(slide.FontSize)
	bold := strings.Contains(slide.FontWeight, "bold") || strings.Contains(slide.FontWeight, "semibold")

	titleFace, err := r.face(slide.FontFamily, bold, titleSize)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(slideWidth, slideHeight)
	dc.SetColor(bg)
	dc.DrawRectangle(0, 0, slideWidth, slideHeight)
	dc.Fill()
	dc.SetColor(fg)

	ax := anchorX(slide.TextAlign)
	x := positionX(slide.TextPosition.X)
	y := positionY(slide.TextPosition.Y)

	// Title, honoring explicit line breaks.
	dc.SetFontFace(titleFace)
	titleLines := strings.Split(strings.ReplaceAll(slide.Content.Title, "\r\n", "\n"), "\n")
	titleY := y
	for _, line := range titleLines {
		dc.DrawStringAnchored(line, x, titleY, ax, 0)
		titleY += titleSize * 1.1
	}

	if slide.Content.Subtitle != "" {
		subFace, err := r.face(slide.FontFamily, false, titleSize*0.6)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(subFace)
		dc.DrawStringAnchored(slide.Content.Subtitle, x, y+titleSize*0.8, ax, 0)
	}

	if slide.Content.Body != "" {
		bodyFace, err := r.face(slide.FontFamily, false, titleSize*0.5)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(bodyFace)
		maxWidth := float64(slideWidth - 2*slideMargin)
		lineY := y + titleSize*1.5
		lineStep := titleSize * 0.7
		for _, para := range strings.Split(stripEmphasis(slide.Content.Body), "\n\n") {
			words := strings.Fields(para)
			if len(words) == 0 {
				continue
			}
			lines := wrapWords(words, maxWidth, func(s string) float64 {
				w, _ := dc.MeasureString(s)
				return w
			})
			for _, line := range lines {
				dc.DrawStringAnchored(line, x, lineY, ax, 0)
				lineY += lineStep
			}
			lineY += lineStep * 0.5
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapWords lays words into lines greedily: a word moves to the next line
// once appending it would exceed maxWidth. A single over-wide word gets a
// line of its own rather than being dropped.
func wrapWords(words []string, maxWidth float64, measure func(string) float64) []string {
	var lines []string
	var current string
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current != "" && measure(candidate) > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// stripEmphasis removes markdown bold/italic markers the model likes to emit;
// the renderer has no styled-run support, so the markers would show verbatim.
func stripEmphasis(s string) string {
	return strings.NewReplacer("**", "", "*", "", "__", "").Replace(s)
}

func tokenFontSize(token string) float64 {
	if px, ok := fontSizeTokens[token]; ok {
		return px
	}
	return defaultFontSizePx
}

func anchorX(textAlign string) float64 {
	switch {
	case strings.Contains(textAlign, "text-center"):
		return 0.5
	case strings.Contains(textAlign, "text-left"):
		return 0
	default:
		return 1
	}
}

func positionX(token string) float64 {
	switch {
	case strings.Contains(token, "left"):
		return slideMargin
	case strings.Contains(token, "right"):
		return slideWidth - slideMargin
	default:
		return slideWidth / 2
	}
}

func positionY(token string) float64 {
	switch {
	case strings.Contains(token, "top"):
		return 200
	case strings.Contains(token, "bottom"):
		return slideHeight - 200
	default:
		return slideHeight / 2
	}
}

func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, fmt.Errorf("not a hex color")
	}
	hexPart := s[1:]
	var r, g, b uint8
	switch len(hexPart) {
	case 3:
		if _, err := fmt.Sscanf(hexPart, "%1x%1x%1x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("not a hex color")
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(hexPart, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("not a hex color")
		}
	default:
		return color.NRGBA{}, fmt.Errorf("not a hex color")
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
