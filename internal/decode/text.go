package decode

import (
	"context"

	"github.com/nattapong-dev/tor-analyzer/constants"
)

// TextDecoder interprets bytes as UTF-8 text directly. Exact passthrough:
// no trimming, no normalization.
type TextDecoder struct{}

func (TextDecoder) Format() constants.Format { return constants.TEXT }

func (TextDecoder) Decode(_ context.Context, data []byte) (string, error) {
	return string(data), nil
}
