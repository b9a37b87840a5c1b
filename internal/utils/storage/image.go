package storage

import (
	"encoding/base64"
	"strings"

	"Foodgram-Backend/domain"

	"github.com/gabriel-vasile/mimetype"
)

var AllowImage = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeImage accepts a base64 data URI ("data:image/png;base64,...") or a bare
// base64 string and checks the decoded bytes against the allowed MIME types.
func DecodeImage(payload string, allowed ...string) (*Image, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, domain.NewValidationError("image", domain.RuleImageRequired, "image is required")
	}

	encoded := payload
	if strings.HasPrefix(payload, "data:") {
		header, body, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, domain.NewValidationError("image", domain.RuleImageInvalid, "image must be a base64 data URI")
		}
		encoded = body
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
	}
	if err != nil || len(data) == 0 {
		return nil, domain.NewValidationError("image", domain.RuleImageInvalid, "image is not valid base64")
	}

	if len(allowed) == 0 {
		allowed = AllowImage
	}
	mtype := mimetype.Detect(data)
	for _, a := range allowed {
		if mtype.Is(a) {
			return &Image{Data: data, ContentType: a, Extension: mtype.Extension()}, nil
		}
	}
	return nil, domain.NewValidationError("image", domain.RuleImageInvalid, "unsupported image type "+mtype.String())
}
