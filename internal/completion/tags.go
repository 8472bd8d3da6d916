package completion

import (
	"context"
	"fmt"
	"strings"
)

// GenerateTags asks the model for search tags describing a product.
// The answer is split on commas and each piece trimmed; empty pieces are kept.
func GenerateTags(ctx context.Context, client Client, title, description string) ([]string, error) {
	prompt := fmt.Sprintf(TagGenerationPrompt, title, description)
	res := client.Complete(ctx, "", prompt)
	if !res.OK() {
		return nil, fmt.Errorf("failed to generate tags for %q: %w", title, res.Err)
	}

	pieces := strings.Split(res.Text, ",")
	tags := make([]string, len(pieces))
	for i, tag := range pieces {
		tags[i] = strings.TrimSpace(tag)
	}
	return tags, nil
}
