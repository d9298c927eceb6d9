package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masa6314/Tuji-hack/internal/models"

	"gorm.io/gorm"
)

// AggregationService reduces a respondent's response history into the
// dashboard views. All date bucketing happens in the canonical display zone.
type AggregationService struct {
	db      *gorm.DB
	scoring *ScoringService
	loc     *time.Location
}

func NewAggregationService(db *gorm.DB, scoring *ScoringService, loc *time.Location) *AggregationService {
	return &AggregationService{db: db, scoring: scoring, loc: loc}
}

type DailyPoint struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// Summary is one identity's latest state. LatestScore is nil for an identity
// that has never responded, so "no data" stays distinguishable from a zero
// score.
type Summary struct {
	IdentityID    uint   `json:"identity_id"`
	DisplayName   string `json:"display_name"`
	ExternalToken string `json:"external_token"`
	LatestScore   *int   `json:"latest_score"`
	LatestStatus  string `json:"latest_status"`
	LatestAt      string `json:"latest_at"`
	Risk          string `json:"risk"`
	RiskColor     string `json:"risk_color,omitempty"`
}

type AnswerDetail struct {
	Code   string `json:"code"`
	Answer string `json:"answer"`
	Point  int    `json:"point"`
}

type RankingEntry struct {
	IdentityID  uint   `json:"identity_id"`
	DisplayName string `json:"display_name"`
	ActiveDays  int    `json:"active_days"`
}

// DailySeries groups an identity's responses by calendar date in the display
// zone, keeps only the latest response per date (submission instant, then id)
// and returns one scored point per date in ascending date order. Calling it
// twice over unchanged data yields identical output.
func (s *AggregationService) DailySeries(identityID uint) ([]DailyPoint, error) {
	var rows []models.SurveyResponse
	if err := s.db.Where("identity_id = ?", identityID).
		Order("submitted_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	latestByDay := make(map[string]*models.SurveyResponse)
	for i := range rows {
		day := rows[i].SubmittedAt.In(s.loc).Format("2006-01-02")
		if _, seen := latestByDay[day]; !seen {
			latestByDay[day] = &rows[i]
		}
	}

	days := make([]string, 0, len(latestByDay))
	for day := range latestByDay {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]DailyPoint, 0, len(days))
	for _, day := range days {
		series = append(series, DailyPoint{
			Date:  day,
			Score: s.scoring.TotalScore(latestByDay[day]),
		})
	}
	return series, nil
}

// LatestSummary picks the single most recent response (submission instant
// desc, id desc) and scores it; an identity with no responses gets the
// explicit no-data variant.
func (s *AggregationService) LatestSummary(identity *models.Identity) (*Summary, error) {
	summary := &Summary{
		IdentityID:    identity.ID,
		DisplayName:   displayNameOrUnset(identity),
		ExternalToken: identity.ExternalToken,
		LatestStatus:  StatusNoData,
		LatestAt:      "-",
		Risk:          RiskNone,
	}

	var row models.SurveyResponse
	err := s.db.Where("identity_id = ?", identity.ID).
		Order("submitted_at DESC, id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return summary, nil
	}
	if err != nil {
		return nil, err
	}

	score := s.scoring.TotalScore(&row)
	summary.LatestScore = &score
	summary.LatestStatus = s.scoring.StatusLabel(score)
	summary.LatestAt = row.SubmittedAt.In(s.loc).Format("2006-01-02 15:04:05")
	summary.Risk = s.scoring.RiskLevel(score)
	summary.RiskColor = s.scoring.RiskColor(score)
	return summary, nil
}

// LatestAnswers returns the per-question detail of the latest response, or
// twelve empty entries when the identity has never responded.
func (s *AggregationService) LatestAnswers(identityID uint) ([]AnswerDetail, error) {
	details := make([]AnswerDetail, 12)
	for i := range details {
		details[i].Code = fmt.Sprintf("Q%d", i+1)
	}

	var row models.SurveyResponse
	err := s.db.Where("identity_id = ?", identityID).
		Order("submitted_at DESC, id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return details, nil
	}
	if err != nil {
		return nil, err
	}

	for i, answer := range row.Answers() {
		details[i].Answer = answer
		details[i].Point = s.scoring.AnswerPoint(answer)
	}
	return details, nil
}

// Overview builds one latest summary per identity, ordered by risk priority
// high, mid, low, none. The stable sort keeps identity-id ascending order
// within a tier.
func (s *AggregationService) Overview() ([]Summary, error) {
	var identities []models.Identity
	if err := s.db.Order("id ASC").Find(&identities).Error; err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(identities))
	for i := range identities {
		summary, err := s.LatestSummary(&identities[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}

	riskOrder := map[string]int{RiskHigh: 0, RiskMid: 1, RiskLow: 2, RiskNone: 3}
	sort.SliceStable(summaries, func(a, b int) bool {
		return riskOrder[summaries[a].Risk] < riskOrder[summaries[b].Risk]
	})
	return summaries, nil
}

// ActivityRanking counts, per identity, the distinct display-zone calendar
// dates with at least one response inside the trailing window, and returns
// the top N sorted by count descending, display name ascending on ties.
// Identities with no activity in the window are omitted.
func (s *AggregationService) ActivityRanking(windowDays, topN int) ([]RankingEntry, error) {
	since := time.Now().In(s.loc).AddDate(0, 0, -windowDays)

	var rows []models.SurveyResponse
	if err := s.db.Where("submitted_at >= ?", since).Find(&rows).Error; err != nil {
		return nil, err
	}

	daysByIdentity := make(map[uint]map[string]bool)
	for i := range rows {
		day := rows[i].SubmittedAt.In(s.loc).Format("2006-01-02")
		if daysByIdentity[rows[i].IdentityID] == nil {
			daysByIdentity[rows[i].IdentityID] = make(map[string]bool)
		}
		daysByIdentity[rows[i].IdentityID][day] = true
	}
	if len(daysByIdentity) == 0 {
		return []RankingEntry{}, nil
	}

	ids := make([]uint, 0, len(daysByIdentity))
	for id := range daysByIdentity {
		ids = append(ids, id)
	}
	var identities []models.Identity
	if err := s.db.Where("id IN ?", ids).Find(&identities).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(identities))
	for i := range identities {
		names[identities[i].ID] = displayNameOrUnset(&identities[i])
	}

	entries := make([]RankingEntry, 0, len(daysByIdentity))
	for id, days := range daysByIdentity {
		entries = append(entries, RankingEntry{
			IdentityID:  id,
			DisplayName: names[id],
			ActiveDays:  len(days),
		})
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].ActiveDays != entries[b].ActiveDays {
			return entries[a].ActiveDays > entries[b].ActiveDays
		}
		return entries[a].DisplayName < entries[b].DisplayName
	})

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	return entries, nil
}

func displayNameOrUnset(identity *models.Identity) string {
	if identity.DisplayName == "" {
		return models.DisplayNameUnset
	}
	return identity.DisplayName
}

