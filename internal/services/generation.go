package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/lesmnif/echoes/internal/clients/openai"
	"github.com/lesmnif/echoes/internal/config"
	"github.com/lesmnif/echoes/internal/data/repos"
	"github.com/lesmnif/echoes/internal/pkg/logger"
	"github.com/lesmnif/echoes/internal/postgen"
	"github.com/lesmnif/echoes/internal/types"
)

const generationType = "motivational_post"

// GenerationRequest carries the caller-supplied context for one post
// generation. All fields are optional.
type GenerationRequest struct {
	Theme    string         `json:"theme"`
	Style    string         `json:"style"`
	Identity string         `json:"identity"`
	Journal  []JournalInput `json:"journal"`
}

// GenerationStream is what the handler gets back: the live session to stream
// from plus the gate it must poke when the stream runs to its natural end.
type GenerationStream struct {
	Session *postgen.Session
	gate    *postgen.Gate
}

func NewGenerationStream(sess *postgen.Session, gate *postgen.Gate) *GenerationStream {
	return &GenerationStream{Session: sess, gate: gate}
}

// Finalize re-checks the session after the consumer's read loop ends, closing
// the race where the loop returns before the subscriber goroutine delivered
// the terminal snapshot. The gate latch keeps it idempotent. It must not be
// called on consumer teardown; cancel the session instead.
func (gs *GenerationStream) Finalize() {
	gs.gate.Observe(gs.Session.Snapshot())
}

type GenerationService interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationStream, error)
	ListPosts(ctx context.Context) ([]*types.AIGeneration, error)
	GetPost(ctx context.Context, id uuid.UUID) (*types.AIGeneration, error)
}

type generationService struct {
	cfg     *config.Config
	log     *logger.Logger
	client  openai.Client
	genRepo repos.GenerationRepo

	mu   sync.Mutex
	live *postgen.Session
}

func NewGenerationService(cfg *config.Config, log *logger.Logger, client openai.Client, genRepo repos.GenerationRepo) GenerationService {
	return &generationService{
		cfg:     cfg,
		log:     log.With("service", "GenerationService"),
		client:  client,
		genRepo: genRepo,
	}
}

func (gs *generationService) Generate(ctx context.Context, req GenerationRequest) (*GenerationStream, error) {
	recent := gs.recentContent(ctx)
	systemPrompt := buildSystemPrompt(recent)
	userPrompt := buildUserPrompt(recent, req.Identity, req.Journal)

	gs.log.Info("Starting post generation",
		"theme", req.Theme,
		"style", req.Style,
		"identityLen", len(req.Identity),
		"journalEntries", len(req.Journal),
		"recentTitles", len(recent.Titles))

	sess := postgen.NewSession(gs.log)
	gate := postgen.NewGate(gs.log,
		func(res *postgen.GenerationResult) {
			gs.persist(systemPrompt, userPrompt, res)
		},
		func(err error) {
			gs.log.Warn("Generation ended without a usable result", "error", err)
		})

	gs.supersede(sess)

	streamCtx, cancel := context.WithTimeout(context.Background(), gs.cfg.GenerationTimeout)
	sess.BindCancel(cancel)

	chunks := make(chan postgen.Chunk, 8)
	go func() {
		defer cancel()
		defer close(chunks)
		final, err := gs.client.StreamObject(streamCtx, systemPrompt, userPrompt, postgen.SchemaName, postgen.ResultJSONSchema(), func(accumulated string) {
			if partial, ok := postgen.DecodeGrowing(accumulated); ok {
				chunks <- postgen.Chunk{Partial: partial}
			}
		})
		if err != nil {
			chunks <- postgen.Chunk{Err: err}
			return
		}
		var done map[string]any
		if err := json.Unmarshal([]byte(final), &done); err != nil {
			chunks <- postgen.Chunk{Err: fmt.Errorf("final output is not a JSON object: %w", err)}
			return
		}
		chunks <- postgen.Chunk{Done: done}
	}()

	go sess.Run(chunks)

	// The gate watches the same snapshot feed the handler streams from.
	go func() {
		sub, unsubscribe := sess.Subscribe()
		defer unsubscribe()
		for snap := range sub {
			gate.Observe(snap)
		}
	}()

	return NewGenerationStream(sess, gate), nil
}

// recentContent loads repetition-avoidance material from the last persisted
// generations. Failures degrade to empty lists; a generation should never be
// blocked by the summary lookup.
func (gs *generationService) recentContent(ctx context.Context) recentContent {
	summaries, err := gs.genRepo.RecentSummaries(ctx, nil, gs.cfg.DefaultUserID, gs.cfg.RecentSummaryLimit)
	if err != nil {
		gs.log.Warn("Failed to fetch recent summaries", "error", err)
		return recentContent{}
	}
	return parseRecentSummaries(summaries)
}

// supersede makes the new session the single live one and aborts whatever
// was streaming before it.
func (gs *generationService) supersede(next *postgen.Session) {
	gs.mu.Lock()
	prev := gs.live
	gs.live = next
	gs.mu.Unlock()
	if prev != nil {
		prev.Cancel()
	}
}

// persist stores the completed generation. It runs under the gate's latch,
// so it executes at most once per session regardless of which trigger won.
// Storage failure is logged and swallowed: the caller already has the result
// on the stream.
func (gs *generationService) persist(systemPrompt, userPrompt string, res *postgen.GenerationResult) {
	raw, err := json.Marshal(res)
	if err != nil {
		gs.log.Error("Failed to encode generation result", "error", err)
		return
	}

	summaryText := res.Summary
	if len(res.Post.Slides) > 0 && res.Post.Slides[0].Content.Title != "" && res.Summary != "" {
		summaryText = fmt.Sprintf("%s: %s", res.Post.Slides[0].Content.Title, res.Summary)
	}

	gen := &types.AIGeneration{
		UserID:         gs.cfg.DefaultUserID,
		PromptSent:     fmt.Sprintf("SYSTEM:\n%s\n\nUSER:\n%s", systemPrompt, userPrompt),
		AIResponse:     datatypes.JSON(raw),
		ModelUsed:      gs.client.Model(),
		GenerationType: generationType,
		Summary:        summaryText,
	}
	if err := gs.genRepo.Create(context.Background(), nil, gen); err != nil {
		gs.log.Error("Failed to save generation", "error", err)
		return
	}
	gs.log.Info("Generation saved", "id", gen.ID, "summary", summaryText)
}

func (gs *generationService) ListPosts(ctx context.Context) ([]*types.AIGeneration, error) {
	return gs.genRepo.ListByUser(ctx, nil, gs.cfg.DefaultUserID)
}

func (gs *generationService) GetPost(ctx context.Context, id uuid.UUID) (*types.AIGeneration, error) {
	return gs.genRepo.GetByID(ctx, nil, id)
}
