package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/lesmnif/echoes/internal/config"
	"github.com/lesmnif/echoes/internal/data/repos"
	pkgerrors "github.com/lesmnif/echoes/internal/pkg/errors"
	"github.com/lesmnif/echoes/internal/pkg/logger"
	"github.com/lesmnif/echoes/internal/types"
)

// SaveJournalRequest is the payload of a journal save. EntryDate is
// YYYY-MM-DD and defaults to today; Title is optional.
type SaveJournalRequest struct {
	Identity  string `json:"identity"`
	Entry     string `json:"entry"`
	EntryDate string `json:"entryDate"`
	Title     string `json:"title"`
}

type JournalService interface {
	Save(ctx context.Context, req SaveJournalRequest) (savedDate string, err error)
	ListEntries(ctx context.Context) ([]*types.JournalEntry, error)
}

type journalService struct {
	cfg          *config.Config
	log          *logger.Logger
	identityRepo repos.IdentityRepo
	journalRepo  repos.JournalRepo
}

func NewJournalService(cfg *config.Config, log *logger.Logger, identityRepo repos.IdentityRepo, journalRepo repos.JournalRepo) JournalService {
	return &journalService{
		cfg:          cfg,
		log:          log.With("service", "JournalService"),
		identityRepo: identityRepo,
		journalRepo:  journalRepo,
	}
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// countWords strips markup before counting so rich-text entries are not
// inflated by tags.
func countWords(content string) int {
	plain := htmlTagPattern.ReplaceAllString(content, " ")
	return len(strings.Fields(plain))
}

func (js *journalService) Save(ctx context.Context, req SaveJournalRequest) (string, error) {
	if strings.TrimSpace(req.Entry) == "" {
		return "", pkgerrors.ErrInvalidArgument
	}

	entryDate := strings.TrimSpace(req.EntryDate)
	if entryDate == "" {
		entryDate = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", entryDate); err != nil {
		return "", pkgerrors.ErrInvalidArgument
	}

	if strings.TrimSpace(req.Identity) != "" {
		if err := js.identityRepo.Upsert(ctx, nil, js.cfg.DefaultUserID, req.Identity); err != nil {
			return "", err
		}
	}

	now := time.Now()
	entry := &types.JournalEntry{
		UserID:       js.cfg.DefaultUserID,
		EntryDate:    entryDate,
		Title:        req.Title,
		Content:      req.Entry,
		WordCount:    countWords(req.Entry),
		LastEditedAt: now,
	}
	if err := js.journalRepo.UpsertByDate(ctx, nil, entry); err != nil {
		return "", err
	}

	js.log.Info("Journal saved", "date", entryDate, "words", entry.WordCount)
	return entryDate, nil
}

func (js *journalService) ListEntries(ctx context.Context) ([]*types.JournalEntry, error) {
	return js.journalRepo.ListByUser(ctx, nil, js.cfg.DefaultUserID)
}
