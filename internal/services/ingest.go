package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masa6314/Tuji-hack/internal/config"
	"github.com/Masa6314/Tuji-hack/internal/models"

	"gorm.io/gorm"
)

// ErrMissingToken means the submission carried no capability token at all.
var ErrMissingToken = errors.New("user token missing")

// MultiSelectError rejects a mapped question that arrived with more than one
// answer value: every survey question is single-choice.
type MultiSelectError struct {
	Label string
}

func (e *MultiSelectError) Error() string {
	return fmt.Sprintf("single choice only: %s", e.Label)
}

// IncompleteError names the slots left empty after mapping; nothing is
// persisted for such a submission.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return "missing required answers: " + strings.Join(e.Missing, ", ")
}

// FormPayload is the Apps Script webhook body: answers keyed by the exact
// question label, one or more values per label.
type FormPayload struct {
	Responses   map[string][]string `json:"responses"`
	SubmittedAt string              `json:"submitted_at"`
}

// IngestService validates and persists form submissions. It is the only
// write path for survey responses.
type IngestService struct {
	db       *gorm.DB
	identity *IdentityService
	cfg      *config.Config
}

func NewIngestService(db *gorm.DB, identity *IdentityService, cfg *config.Config) *IngestService {
	return &IngestService{db: db, identity: identity, cfg: cfg}
}

// Ingest turns one webhook payload into an immutable SurveyResponse row, or
// returns a validation error with nothing persisted. Question labels outside
// the configured table are ignored; mapped labels are strictly validated.
func (s *IngestService) Ingest(payload *FormPayload) (*models.SurveyResponse, error) {
	submittedAt := parseSubmittedAt(payload.SubmittedAt)

	token := ""
	if values := payload.Responses[s.cfg.TokenLabel]; len(values) > 0 {
		token = strings.TrimSpace(values[0])
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	identity, err := s.identity.LookupByToken(token)
	if err != nil {
		return nil, err
	}

	var answers [config.QuestionCount]string
	for label, values := range payload.Responses {
		slot, ok := s.cfg.QuestionSlots[label]
		if !ok {
			continue
		}
		if len(values) != 1 {
			return nil, &MultiSelectError{Label: label}
		}
		answers[slot-1] = strings.TrimSpace(values[0])
	}

	var missing []string
	for i, a := range answers {
		if a == "" {
			missing = append(missing, fmt.Sprintf("Q%d", i+1))
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing}
	}

	resp := models.NewSurveyResponse(identity.ID, submittedAt, answers)
	if err := s.db.Create(resp).Error; err != nil {
		return nil, err
	}
	return resp, nil
}

// parseSubmittedAt accepts RFC 3339 (trailing Z allowed) and a zone-less
// variant treated as UTC. An absent or unparseable timestamp falls back to
// the ingestion instant; a submission is never rejected over its timestamp.
func parseSubmittedAt(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC()
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", raw, time.UTC); err == nil {
		return t
	}
	return time.Now().UTC()
}
