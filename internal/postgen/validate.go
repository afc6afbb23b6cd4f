package postgen

import (
	"fmt"

	pkgerrors "github.com/lesmnif/echoes/internal/pkg/errors"
)

// ValidatePartial checks a streamed partial for type mismatches only.
// Absent fields and under-length arrays never fail: the value is still
// growing. A string field holding a number does fail.
func ValidatePartial(raw map[string]any) error {
	if err := checkString(raw, "summary"); err != nil {
		return err
	}
	post, err := checkObject(raw, "post")
	if err != nil || post == nil {
		return err
	}
	for _, field := range []string{"theme", "style", "caption", "description"} {
		if err := checkString(post, field); err != nil {
			return fmt.Errorf("post.%s: %w", field, err)
		}
	}
	if v, ok := post["hashtags"]; ok && v != nil {
		tags, ok := v.([]any)
		if !ok {
			return fmt.Errorf("post.hashtags: expected array, got %T", v)
		}
		for i, tag := range tags {
			if tag == nil {
				continue
			}
			if _, ok := tag.(string); !ok {
				return fmt.Errorf("post.hashtags[%d]: expected string, got %T", i, tag)
			}
		}
	}
	if v, ok := post["slides"]; ok && v != nil {
		slides, ok := v.([]any)
		if !ok {
			return fmt.Errorf("post.slides: expected array, got %T", v)
		}
		for i, s := range slides {
			if s == nil {
				continue
			}
			slide, ok := s.(map[string]any)
			if !ok {
				return fmt.Errorf("post.slides[%d]: expected object, got %T", i, s)
			}
			if err := validatePartialSlide(slide, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func validatePartialSlide(slide map[string]any, idx int) error {
	if v, ok := slide["id"]; ok && v != nil {
		if _, ok := v.(float64); !ok {
			return fmt.Errorf("post.slides[%d].id: expected number, got %T", idx, v)
		}
	}
	for _, field := range []string{"backgroundColor", "textColor", "fontFamily", "fontSize", "fontWeight", "textAlign"} {
		if err := checkString(slide, field); err != nil {
			return fmt.Errorf("post.slides[%d].%s: %w", idx, field, err)
		}
	}
	content, err := checkObject(slide, "content")
	if err != nil {
		return fmt.Errorf("post.slides[%d].content: %w", idx, err)
	}
	if content != nil {
		for _, field := range []string{"title", "subtitle", "body"} {
			if err := checkString(content, field); err != nil {
				return fmt.Errorf("post.slides[%d].content.%s: %w", idx, field, err)
			}
		}
	}
	pos, err := checkObject(slide, "textPosition")
	if err != nil {
		return fmt.Errorf("post.slides[%d].textPosition: %w", idx, err)
	}
	if pos != nil {
		for _, field := range []string{"x", "y"} {
			if err := checkString(pos, field); err != nil {
				return fmt.Errorf("post.slides[%d].textPosition.%s: %w", idx, field, err)
			}
		}
	}
	return nil
}

func checkString(m map[string]any, key string) error {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	if _, ok := v.(string); !ok {
		return fmt.Errorf("%s: expected string, got %T", key, v)
	}
	return nil
}

func checkObject(m map[string]any, key string) (map[string]any, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected object, got %T", key, v)
	}
	return obj, nil
}

// ValidateTerminal checks the final merged value: every required field
// present, exactly two slides with ids 1 and 2, hashtags present.
func ValidateTerminal(res *GenerationResult) error {
	if res == nil {
		return fmt.Errorf("%w: nil result", pkgerrors.ErrInvalidArgument)
	}
	if res.Summary == "" {
		return fmt.Errorf("%w: missing summary", pkgerrors.ErrInvalidArgument)
	}
	post := res.Post
	required := map[string]string{
		"post.theme":       post.Theme,
		"post.style":       post.Style,
		"post.caption":     post.Caption,
		"post.description": post.Description,
	}
	for name, val := range required {
		if val == "" {
			return fmt.Errorf("%w: missing %s", pkgerrors.ErrInvalidArgument, name)
		}
	}
	if post.Hashtags == nil {
		return fmt.Errorf("%w: missing post.hashtags", pkgerrors.ErrInvalidArgument)
	}
	if len(post.Slides) != 2 {
		return fmt.Errorf("%w: expected exactly 2 slides, got %d", pkgerrors.ErrInvalidArgument, len(post.Slides))
	}
	seen := map[int]bool{}
	for i, slide := range post.Slides {
		if slide.ID != 1 && slide.ID != 2 {
			return fmt.Errorf("%w: slide %d has id %d, want 1 or 2", pkgerrors.ErrInvalidArgument, i, slide.ID)
		}
		if seen[slide.ID] {
			return fmt.Errorf("%w: duplicate slide id %d", pkgerrors.ErrInvalidArgument, slide.ID)
		}
		seen[slide.ID] = true
		for name, val := range map[string]string{
			"backgroundColor": slide.BackgroundColor,
			"textColor":       slide.TextColor,
			"fontFamily":      slide.FontFamily,
			"fontSize":        slide.FontSize,
			"fontWeight":      slide.FontWeight,
			"textAlign":       slide.TextAlign,
			"content.title":   slide.Content.Title,
		} {
			if val == "" {
				return fmt.Errorf("%w: slide %d missing %s", pkgerrors.ErrInvalidArgument, slide.ID, name)
			}
		}
	}
	return nil
}

// ValidateColorContract reports whether slide colors are exact swapped pairs
// as the generation instructions request. The model is not guaranteed to
// honor it, so callers log the returned ErrColorContract rather than failing
// the result.
func ValidateColorContract(res *GenerationResult) error {
	if res == nil || len(res.Post.Slides) != 2 {
		return nil
	}
	a, b := res.Post.Slides[0], res.Post.Slides[1]
	if a.BackgroundColor != b.TextColor || a.TextColor != b.BackgroundColor {
		return pkgerrors.ErrColorContract
	}
	return nil
}
