package product

import (
	"encoding/base64"
	"strings"

	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/gabriel-vasile/mimetype"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// decodeImage strips an optional data URL prefix, decodes the payload and
// checks its sniffed type against the allowed image types.
func decodeImage(raw string, maxBytes int) (string, string, error) {
	payload := strings.TrimSpace(raw)
	if idx := strings.Index(payload, ","); strings.HasPrefix(payload, "data:") && idx >= 0 {
		payload = payload[idx+1:]
	}
	if payload == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "image is empty")
	}
	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+2 {
		return "", "", imageTooLarge(maxBytes)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image is not valid base64")
	}
	if maxBytes > 0 && len(decoded) > maxBytes {
		return "", "", imageTooLarge(maxBytes)
	}

	detected := mimetype.Detect(decoded)
	if !mimetype.EqualsAny(detected.String(), allowedImageTypes...) {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "file is not a supported image").
			WithDetails(map[string]any{"content_type": detected.String()})
	}
	return payload, detected.String(), nil
}

func imageTooLarge(maxBytes int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "image exceeds the size limit").
		WithDetails(map[string]any{"max_bytes": maxBytes})
}
