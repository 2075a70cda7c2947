package ai

import (
	"context"

	"github.com/ideavalidator/sanity-api/internal/domain/idea"
)

// Client is the outbound port to the generative-text service: the full
// questionnaire in, one raw text reply out. No retry, no streaming; one
// request per submission.
type Client interface {
	Analyze(ctx context.Context, form idea.FormData) (string, error)
}
