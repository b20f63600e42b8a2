package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/condutamedx/medx-backend/app/models"
)

func TestHistoryFileName(t *testing.T) {
	history := &models.AssistantHistory{
		Assistant:     &models.Assistant{Name: "SOAP Note"},
		Transcription: &models.Transcription{OriginalFileName: "consult-2026-08-01.mp3"},
	}
	assert.Equal(t, "consult-2026-08-01-SOAP_Note", historyFileName(history))
}

func TestHistoryFileNameFallbacks(t *testing.T) {
	assert.Equal(t, "transcription-assistant", historyFileName(&models.AssistantHistory{}))

	noExt := &models.AssistantHistory{
		Assistant:     &models.Assistant{Name: "Summary"},
		Transcription: &models.Transcription{OriginalFileName: "recording"},
	}
	assert.Equal(t, "recording-Summary", historyFileName(noExt))
}
