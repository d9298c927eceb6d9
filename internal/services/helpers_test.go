package services

import (
	"testing"
	"time"

	"github.com/Masa6314/Tuji-hack/internal/config"
	"github.com/Masa6314/Tuji-hack/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory store. A single connection keeps the
// whole test on one sqlite database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Identity{}, &models.SurveyResponse{}, &models.Admin{}))
	return db
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	slots, err := config.BuildQuestionSlots(config.DefaultQuestionLabels, config.TokenLabel)
	require.NoError(t, err)

	return &config.Config{
		Location:       loc,
		TokenLabel:     config.TokenLabel,
		QuestionLabels: config.DefaultQuestionLabels,
		QuestionSlots:  slots,
	}
}

func seedIdentity(t *testing.T, db *gorm.DB, name, token, lineUserID string) *models.Identity {
	t.Helper()

	identity := models.Identity{DisplayName: name, ExternalToken: token}
	if lineUserID != "" {
		identity.LineUserID = &lineUserID
	}
	require.NoError(t, db.Create(&identity).Error)
	return &identity
}

func seedResponse(t *testing.T, db *gorm.DB, identityID uint, submittedAt time.Time, answers [12]string) *models.SurveyResponse {
	t.Helper()

	resp := models.NewSurveyResponse(identityID, submittedAt, answers)
	require.NoError(t, db.Create(resp).Error)
	return resp
}

// answersWithScore builds twelve answers of which the first n score a point.
func answersWithScore(n int) [12]string {
	var answers [12]string
	for i := range answers {
		if i < n {
			answers[i] = "3. ときどきあった"
		} else {
			answers[i] = "1. まったくなかった"
		}
	}
	return answers
}
