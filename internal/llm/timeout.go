package llm

import (
	"context"
	"time"
)

type generation struct {
	text string
	err  error
}

// Generate calls the client under a hard timeout and returns once it elapses even if the client
// ignores context cancellation. A non-positive timeout uses DefaultTimeout. jsonMode selects
// GenerateJSON over GenerateContent.
func Generate(ctx context.Context, client Client, prompt string, tier ModelTier, timeout time.Duration, jsonMode bool) (string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan generation, 1)
	go func() {
		var res generation
		if jsonMode {
			res.text, res.err = client.GenerateJSON(ctx, prompt, tier)
		} else {
			res.text, res.err = client.GenerateContent(ctx, prompt, tier)
		}
		done <- res
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
