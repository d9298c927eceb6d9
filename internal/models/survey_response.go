package models

import "time"

// SurveyResponse is one accepted form submission, append-only. All twelve
// answers are required at persistence time; partial submissions are rejected
// before a row is ever created.
type SurveyResponse struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	IdentityID  uint      `gorm:"not null;index" json:"identity_id"`
	SubmittedAt time.Time `gorm:"not null;index" json:"submitted_at"`
	Q1          string    `gorm:"not null" json:"q1"`
	Q2          string    `gorm:"not null" json:"q2"`
	Q3          string    `gorm:"not null" json:"q3"`
	Q4          string    `gorm:"not null" json:"q4"`
	Q5          string    `gorm:"not null" json:"q5"`
	Q6          string    `gorm:"not null" json:"q6"`
	Q7          string    `gorm:"not null" json:"q7"`
	Q8          string    `gorm:"not null" json:"q8"`
	Q9          string    `gorm:"not null" json:"q9"`
	Q10         string    `gorm:"not null" json:"q10"`
	Q11         string    `gorm:"not null" json:"q11"`
	Q12         string    `gorm:"not null" json:"q12"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSurveyResponse fills the fixed answer slots from a 1-based ordered set.
func NewSurveyResponse(identityID uint, submittedAt time.Time, answers [12]string) *SurveyResponse {
	return &SurveyResponse{
		IdentityID:  identityID,
		SubmittedAt: submittedAt,
		Q1:          answers[0],
		Q2:          answers[1],
		Q3:          answers[2],
		Q4:          answers[3],
		Q5:          answers[4],
		Q6:          answers[5],
		Q7:          answers[6],
		Q8:          answers[7],
		Q9:          answers[8],
		Q10:         answers[9],
		Q11:         answers[10],
		Q12:         answers[11],
	}
}

// Answers returns the twelve answers in slot order.
func (r *SurveyResponse) Answers() [12]string {
	return [12]string{r.Q1, r.Q2, r.Q3, r.Q4, r.Q5, r.Q6, r.Q7, r.Q8, r.Q9, r.Q10, r.Q11, r.Q12}
}
