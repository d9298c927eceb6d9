package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/Masa6314/Tuji-hack/internal/config"
	"github.com/Masa6314/Tuji-hack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fullPayload fills all twelve questions: the first n with scoring answers,
// the rest with non-scoring ones.
func fullPayload(token string, scoring int) *FormPayload {
	responses := make(map[string][]string, config.QuestionCount+1)
	responses[config.TokenLabel] = []string{token}
	for i, label := range config.DefaultQuestionLabels {
		if i < scoring {
			responses[label] = []string{"3. ときどきあった"}
		} else {
			responses[label] = []string{"1. まったくなかった"}
		}
	}
	return &FormPayload{
		Responses:   responses,
		SubmittedAt: "2025-06-01T09:30:00Z",
	}
}

func newIngestFixture(t *testing.T) (*gorm.DB, *IngestService, *models.Identity) {
	t.Helper()

	db := newTestDB(t)
	cfg := newTestConfig(t)
	identitySvc := NewIdentityService(db)
	svc := NewIngestService(db, identitySvc, cfg)
	identity := seedIdentity(t, db, "Alice", "token-a", "U123")
	return db, svc, identity
}

func responseCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.SurveyResponse{}).Count(&count).Error)
	return count
}

func TestIngestFullSubmission(t *testing.T) {
	db, svc, identity := newIngestFixture(t)

	resp, err := svc.Ingest(fullPayload("token-a", 6))
	require.NoError(t, err)
	assert.Equal(t, identity.ID, resp.IdentityID)
	assert.Equal(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC), resp.SubmittedAt)
	assert.EqualValues(t, 1, responseCount(t, db))

	scoring := NewScoringService()
	assert.Equal(t, 6, scoring.TotalScore(resp))
	assert.Equal(t, StatusRestRequired, scoring.StatusLabel(scoring.TotalScore(resp)))
}

func TestIngestIgnoresUnknownLabels(t *testing.T) {
	db, svc, _ := newIngestFixture(t)

	payload := fullPayload("token-a", 0)
	payload.Responses["ご意見・ご感想"] = []string{"especially fine today"}

	_, err := svc.Ingest(payload)
	require.NoError(t, err)
	assert.EqualValues(t, 1, responseCount(t, db))
}

func TestIngestMissingToken(t *testing.T) {
	db, svc, _ := newIngestFixture(t)

	payload := fullPayload("token-a", 0)
	delete(payload.Responses, config.TokenLabel)
	_, err := svc.Ingest(payload)
	assert.ErrorIs(t, err, ErrMissingToken)

	payload = fullPayload("   ", 0)
	_, err = svc.Ingest(payload)
	assert.ErrorIs(t, err, ErrMissingToken)

	assert.Zero(t, responseCount(t, db))
}

func TestIngestUnknownToken(t *testing.T) {
	db, svc, _ := newIngestFixture(t)

	_, err := svc.Ingest(fullPayload("no-such-token", 0))
	assert.ErrorIs(t, err, ErrUnknownToken)
	assert.Zero(t, responseCount(t, db))
}

func TestIngestRejectsMultiSelect(t *testing.T) {
	db, svc, _ := newIngestFixture(t)

	payload := fullPayload("token-a", 0)
	label := config.DefaultQuestionLabels[4]
	payload.Responses[label] = []string{"1. まったくなかった", "2. あまりなかった"}

	_, err := svc.Ingest(payload)
	var multiErr *MultiSelectError
	require.ErrorAs(t, err, &multiErr)
	assert.Equal(t, label, multiErr.Label)
	assert.Zero(t, responseCount(t, db))
}

func TestIngestRejectsIncompleteSubmission(t *testing.T) {
	db, svc, _ := newIngestFixture(t)

	payload := fullPayload("token-a", 0)
	delete(payload.Responses, config.DefaultQuestionLabels[2])
	payload.Responses[config.DefaultQuestionLabels[7]] = []string{"   "}

	_, err := svc.Ingest(payload)
	var incErr *IncompleteError
	require.ErrorAs(t, err, &incErr)
	assert.Equal(t, []string{"Q3", "Q8"}, incErr.Missing)
	assert.Zero(t, responseCount(t, db), "nothing may be persisted for a partial submission")
}

func TestParseSubmittedAt(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2025-06-01T09:30:00Z", time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)},
		{"2025-06-01T18:30:00+09:00", time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)},
		{"2025-06-01T09:30:00", time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.True(t, parseSubmittedAt(tc.raw).Equal(tc.want))
		})
	}
}

func TestParseSubmittedAtFallsBackToNow(t *testing.T) {
	for _, raw := range []string{"", "  ", "not-a-timestamp", "2025/06/01"} {
		t.Run(fmt.Sprintf("%q", raw), func(t *testing.T) {
			before := time.Now().UTC()
			got := parseSubmittedAt(raw)
			after := time.Now().UTC()
			assert.False(t, got.Before(before))
			assert.False(t, got.After(after))
		})
	}
}
