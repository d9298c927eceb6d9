package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"strings"

	"github.com/Masa6314/Tuji-hack/internal/models"

	"gorm.io/gorm"
)

// ErrUnknownToken means no identity owns the presented capability token.
var ErrUnknownToken = errors.New("unknown user token")

// ProfileFetcher returns the messaging-platform display name for a user. It
// may fail or time out; callers treat a failure as "name not available yet".
type ProfileFetcher func(lineUserID string) (string, error)

type IdentityService struct {
	db *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

// issueToken draws a fresh URL-safe capability token (12 random bytes,
// 96 bits of entropy).
func issueToken() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Resolve returns the identity for a LINE user id, creating it on first
// contact. Re-invocation is always safe: an existing identity only gets
// best-effort backfill of its display name and token. Two near-simultaneous
// calls for the same unseen user id never create two identities; the unique
// index on line_user_id decides the winner and the loser re-reads.
func (s *IdentityService) Resolve(lineUserID string, fetchProfile ProfileFetcher) (*models.Identity, error) {
	var identity models.Identity
	err := s.db.Where("line_user_id = ?", lineUserID).First(&identity).Error
	if err == nil {
		if berr := s.backfill(&identity, lineUserID, fetchProfile); berr != nil {
			return nil, berr
		}
		return &identity, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	name := fetchName(lineUserID, fetchProfile)
	return s.createOrAdopt(lineUserID, name)
}

// Register is the manual (back-office) path: idempotent create-or-fetch with
// an optional caller-provided name. Returns created=false when the identity
// already existed.
func (s *IdentityService) Register(lineUserID, name string, fetchProfile ProfileFetcher) (*models.Identity, bool, error) {
	var identity models.Identity
	err := s.db.Where("line_user_id = ?", lineUserID).First(&identity).Error
	if err == nil {
		return &identity, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fetchName(lineUserID, fetchProfile)
	}
	created, err := s.createOrAdopt(lineUserID, name)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// LookupByToken resolves an identity by exact capability-token match.
func (s *IdentityService) LookupByToken(token string) (*models.Identity, error) {
	var identity models.Identity
	if err := s.db.Where("external_token = ?", token).First(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownToken
		}
		return nil, err
	}
	return &identity, nil
}

func (s *IdentityService) Get(id uint) (*models.Identity, error) {
	var identity models.Identity
	if err := s.db.First(&identity, id).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

// createOrAdopt inserts a new identity with a fresh token. On a duplicate-key
// failure it distinguishes the two possible conflicts by re-reading: if the
// line_user_id now exists someone else won the creation race and their row is
// adopted; otherwise the fresh token collided and a new one is drawn.
func (s *IdentityService) createOrAdopt(lineUserID, name string) (*models.Identity, error) {
	for {
		token, err := issueToken()
		if err != nil {
			return nil, err
		}
		identity := models.Identity{
			DisplayName:   name,
			ExternalToken: token,
			LineUserID:    &lineUserID,
		}
		err = s.db.Create(&identity).Error
		if err == nil {
			return &identity, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}

		var existing models.Identity
		lerr := s.db.Where("line_user_id = ?", lineUserID).First(&existing).Error
		if lerr == nil {
			return &existing, nil
		}
		if !errors.Is(lerr, gorm.ErrRecordNotFound) {
			return nil, lerr
		}
		// Token collision: draw again.
	}
}

// backfill fills in the display name (while still the unset sentinel) and the
// capability token (if somehow absent) on an existing row. Both updates are
// conditional at the store layer so concurrent resolutions of the same
// identity cannot clobber each other, and both are no-ops once satisfied.
func (s *IdentityService) backfill(identity *models.Identity, lineUserID string, fetchProfile ProfileFetcher) error {
	if identity.DisplayName == "" || identity.DisplayName == models.DisplayNameUnset {
		if name := fetchName(lineUserID, fetchProfile); name != models.DisplayNameUnset {
			res := s.db.Model(&models.Identity{}).
				Where("id = ? AND (display_name = ? OR display_name = '')", identity.ID, models.DisplayNameUnset).
				Update("display_name", name)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				identity.DisplayName = name
			}
		}
	}

	if identity.ExternalToken == "" {
		for {
			token, err := issueToken()
			if err != nil {
				return err
			}
			res := s.db.Model(&models.Identity{}).
				Where("id = ? AND external_token = ''", identity.ID).
				Update("external_token", token)
			if res.Error != nil {
				if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
					continue
				}
				return res.Error
			}
			break
		}
		// Pick up whichever token won, ours or a concurrent resolver's.
		if err := s.db.First(identity, identity.ID).Error; err != nil {
			return err
		}
	}

	return nil
}

func fetchName(lineUserID string, fetchProfile ProfileFetcher) string {
	if fetchProfile == nil {
		return models.DisplayNameUnset
	}
	name, err := fetchProfile(lineUserID)
	if err != nil {
		log.Printf("[identity] profile fetch failed for %s: %v", lineUserID, err)
		return models.DisplayNameUnset
	}
	if name = strings.TrimSpace(name); name == "" {
		return models.DisplayNameUnset
	}
	return name
}
