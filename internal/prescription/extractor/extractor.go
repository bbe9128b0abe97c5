package extractor

import "context"

// Extractor sends an encoded prescription image to a multimodal model and
// returns its raw reply. Implementations must not retry on failure; every
// upstream error is terminal for the request.
type Extractor interface {
	Extract(ctx context.Context, imageDataURL string) (string, error)
}
