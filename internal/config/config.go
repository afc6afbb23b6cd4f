package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lesmnif/echoes/internal/pkg/logger"
	"github.com/lesmnif/echoes/internal/utils"
)

// Config carries the runtime settings for the service. The app runs with a
// single fixed pseudo-user; its id lives here so nothing reaches for a global.
type Config struct {
	Port    string
	LogMode string

	DefaultUserID uuid.UUID

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// GenerationTimeout bounds a single streamed generation call end to end.
	GenerationTimeout time.Duration

	// RecentSummaryLimit is how many prior generation summaries feed the
	// repetition-avoidance section of the prompt.
	RecentSummaryLimit int

	// FontDir optionally points at a directory with serif.ttf / sans.ttf /
	// monospace.ttf overrides (plus -bold variants) for slide rasterization.
	// Empty means built-in fonts.
	FontDir string
}

func Load(log *logger.Logger) (*Config, error) {
	defaultUser := utils.GetEnv("DEFAULT_USER_ID", "00000000-0000-0000-0000-000000000000", log)
	userID, err := uuid.Parse(defaultUser)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_USER_ID %q: %w", defaultUser, err)
	}

	cfg := &Config{
		Port:               utils.GetEnv("PORT", "8080", log),
		LogMode:            utils.GetEnv("LOG_MODE", "development", log),
		DefaultUserID:      userID,
		OpenAIAPIKey:       utils.GetEnv("OPENAI_API_KEY", "", log),
		OpenAIBaseURL:      utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com", log),
		OpenAIModel:        utils.GetEnv("OPENAI_MODEL", "gpt-4.1", log),
		GenerationTimeout:  time.Duration(utils.GetEnvAsInt("GENERATION_TIMEOUT_SECONDS", 30, log)) * time.Second,
		RecentSummaryLimit: utils.GetEnvAsInt("RECENT_SUMMARY_LIMIT", 5, log),
		FontDir:            utils.GetEnv("POST_FONT_DIR", "", log),
	}
	return cfg, nil
}
