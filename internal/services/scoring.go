package services

import (
	"strings"

	"github.com/Masa6314/Tuji-hack/internal/models"
)

// Score thresholds over the 0..12 total: at most HealthyMax is healthy,
// up to CautionMax suggests rest, anything above requires it.
const (
	HealthyMax = 1
	CautionMax = 3
	MaxScore   = 12
)

// Risk tiers derived from the latest total score. RiskNone marks an identity
// with no responses at all, which is distinct from scoring zero.
const (
	RiskNone = "none"
	RiskLow  = "low"
	RiskMid  = "mid"
	RiskHigh = "high"
)

const (
	StatusHealthy      = "とても健康です！"
	StatusRestSoon     = "少し休みましょう！"
	StatusRestRequired = "休息が必要です！"
	StatusNoData       = "未回答"
)

// ScoringService holds the pure scoring rules. Every method is total and
// deterministic; there is no error path.
type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// AnswerPoint maps one choice label to its score contribution. Labels whose
// displayed text starts with the first or second choice marker ("1." / "2.")
// count 0; any other non-empty label counts 1; empty counts 0. This is a
// fixed prefix match on the label text, not a semantic judgement.
func (s *ScoringService) AnswerPoint(label string) int {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0
	}
	if strings.HasPrefix(label, "1.") || strings.HasPrefix(label, "2.") {
		return 0
	}
	return 1
}

// TotalScore sums AnswerPoint over the twelve fixed slots, 0..12.
func (s *ScoringService) TotalScore(r *models.SurveyResponse) int {
	total := 0
	for _, a := range r.Answers() {
		total += s.AnswerPoint(a)
	}
	return total
}

func (s *ScoringService) StatusLabel(score int) string {
	switch {
	case score <= HealthyMax:
		return StatusHealthy
	case score <= CautionMax:
		return StatusRestSoon
	default:
		return StatusRestRequired
	}
}

func (s *ScoringService) RiskLevel(score int) string {
	switch {
	case score <= HealthyMax:
		return RiskLow
	case score <= CautionMax:
		return RiskMid
	default:
		return RiskHigh
	}
}

// RiskColor is the chart color for a score, same bands as RiskLevel.
func (s *ScoringService) RiskColor(score int) string {
	switch s.RiskLevel(score) {
	case RiskLow:
		return "#22c55e"
	case RiskMid:
		return "#eab308"
	default:
		return "#ef4444"
	}
}
