package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuestionSlots(t *testing.T) {
	slots, err := BuildQuestionSlots(DefaultQuestionLabels, TokenLabel)
	require.NoError(t, err)
	require.Len(t, slots, QuestionCount)

	for i, label := range DefaultQuestionLabels {
		assert.Equal(t, i+1, slots[label])
	}
}

func TestBuildQuestionSlotsRejectsDuplicates(t *testing.T) {
	labels := DefaultQuestionLabels
	labels[3] = labels[0]
	_, err := BuildQuestionSlots(labels, TokenLabel)
	assert.Error(t, err)
}

func TestBuildQuestionSlotsRejectsEmptyLabel(t *testing.T) {
	labels := DefaultQuestionLabels
	labels[5] = ""
	_, err := BuildQuestionSlots(labels, TokenLabel)
	assert.Error(t, err)
}

func TestBuildQuestionSlotsRejectsTokenLabelCollision(t *testing.T) {
	labels := DefaultQuestionLabels
	labels[0] = TokenLabel
	_, err := BuildQuestionSlots(labels, TokenLabel)
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "Asia/Tokyo", cfg.Location.String())
	assert.Equal(t, TokenLabel, cfg.TokenLabel)
	assert.Len(t, cfg.QuestionSlots, QuestionCount)
	assert.NotEmpty(t, cfg.WebhookToken)
}
