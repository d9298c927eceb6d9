package models

import "time"

// DisplayNameUnset is the sentinel stored until a real profile name is known.
// Backfill logic treats it (and the empty string) as "still unnamed".
const DisplayNameUnset = "未設定"

// Identity is one real-world respondent. Created on first contact, never
// deleted. ExternalToken is the only credential for the respondent's
// dashboard and the join key on form submissions; LineUserID is nil for
// identities registered out-of-band.
type Identity struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	DisplayName   string    `gorm:"size:255;not null" json:"display_name"`
	ExternalToken string    `gorm:"size:64;uniqueIndex;not null" json:"external_token"`
	LineUserID    *string   `gorm:"size:64;uniqueIndex" json:"line_user_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
