package storage

import (
	"testing"

	"Foodgram-Backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pngBase64  = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAA="
	gifBase64  = "R0lGODlhAQABAAAAAA=="
	textBase64 = "aGVsbG8sIHBsYWluIHRleHQgYm9keQ=="
)

func TestDecodeImageDataURI(t *testing.T) {
	img, err := DecodeImage("data:image/png;base64," + pngBase64)
	require.NoError(t, err)

	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Extension)
	assert.Equal(t, byte(0x89), img.Data[0])
}

func TestDecodeImageBareBase64(t *testing.T) {
	img, err := DecodeImage(gifBase64)
	require.NoError(t, err)
	assert.Equal(t, "image/gif", img.ContentType)
}

func TestDecodeImageRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		rule    string
	}{
		{"empty", "   ", domain.RuleImageRequired},
		{"not base64", "data:image/png;base64,@@@", domain.RuleImageInvalid},
		{"missing base64 marker", "data:image/png," + pngBase64, domain.RuleImageInvalid},
		{"plain text", textBase64, domain.RuleImageInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeImage(tt.payload)
			require.Error(t, err)
			assert.True(t, domain.IsValidationRule(err, tt.rule), "got %v", err)
		})
	}
}

func TestDecodeImageRestrictsAllowedTypes(t *testing.T) {
	_, err := DecodeImage(gifBase64, "image/png")
	assert.True(t, domain.IsValidationRule(err, domain.RuleImageInvalid))
}
