package postgen

import (
	"encoding/json"
	"fmt"
)

// Font family values the generation contract allows.
const (
	FontSerif     = "serif"
	FontMonospace = "monospace"
	FontSans      = "sans"
)

// Defaults applied when rendering a partial result whose slide styling has
// not arrived yet.
const (
	DefaultBackgroundColor = "#000000"
	DefaultTextColor       = "#ffffff"
	DefaultFontFamily      = FontSerif
	DefaultFontSize        = "text-4xl"
	DefaultFontWeight      = "font-bold"
	DefaultTextAlign       = "text-center"
	DefaultPosition        = "center"
)

type SlideContent struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Body     string `json:"body,omitempty"`
}

type TextPosition struct {
	X string `json:"x"`
	Y string `json:"y"`
}

type Slide struct {
	ID              int          `json:"id"`
	BackgroundColor string       `json:"backgroundColor"`
	TextColor       string       `json:"textColor"`
	FontFamily      string       `json:"fontFamily"`
	FontSize        string       `json:"fontSize"`
	FontWeight      string       `json:"fontWeight"`
	TextAlign       string       `json:"textAlign"`
	Content         SlideContent `json:"content"`
	TextPosition    TextPosition `json:"textPosition"`
}

type Post struct {
	Theme       string   `json:"theme"`
	Style       string   `json:"style"`
	Slides      []Slide  `json:"slides"`
	Caption     string   `json:"caption"`
	Hashtags    []string `json:"hashtags"`
	Description string   `json:"description"`
}

// GenerationResult is the full shape the model is asked to produce: two
// styled slides, a caption, hashtags, and a summary used for
// repetition avoidance in later generations.
type GenerationResult struct {
	Summary string `json:"summary"`
	Post    Post   `json:"post"`
}

// DecodeResult converts a merged partial map into the typed result.
func DecodeResult(raw map[string]any) (*GenerationResult, error) {
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode merged result: %w", err)
	}
	var res GenerationResult
	if err := json.Unmarshal(buf, &res); err != nil {
		return nil, fmt.Errorf("decode merged result: %w", err)
	}
	return &res, nil
}

// ResultFromPartial builds a renderable result out of an incomplete partial,
// filling slide styling with defaults the way the live preview does. Used by
// the completion gate's fallback path when the stream stops without a clean
// terminal marker.
func ResultFromPartial(partial map[string]any) *GenerationResult {
	res, err := DecodeResult(partial)
	if err != nil {
		return nil
	}
	for i := range res.Post.Slides {
		s := &res.Post.Slides[i]
		if s.ID == 0 {
			s.ID = i + 1
		}
		if s.BackgroundColor == "" {
			s.BackgroundColor = DefaultBackgroundColor
		}
		if s.TextColor == "" {
			s.TextColor = DefaultTextColor
		}
		if s.FontFamily == "" {
			s.FontFamily = DefaultFontFamily
		}
		if s.FontSize == "" {
			s.FontSize = DefaultFontSize
		}
		if s.FontWeight == "" {
			s.FontWeight = DefaultFontWeight
		}
		if s.TextAlign == "" {
			s.TextAlign = DefaultTextAlign
		}
		if s.TextPosition.X == "" {
			s.TextPosition.X = DefaultPosition
		}
		if s.TextPosition.Y == "" {
			s.TextPosition.Y = DefaultPosition
		}
	}
	return res
}

// HasMinimumUsableData reports whether a partial already carries enough to
// present: at least one slide with a non-empty title.
func HasMinimumUsableData(partial map[string]any) bool {
	post, _ := partial["post"].(map[string]any)
	if post == nil {
		return false
	}
	slides, _ := post["slides"].([]any)
	for _, s := range slides {
		slide, _ := s.(map[string]any)
		if slide == nil {
			continue
		}
		content, _ := slide["content"].(map[string]any)
		if content == nil {
			continue
		}
		if title, _ := content["title"].(string); title != "" {
			return true
		}
	}
	return false
}
