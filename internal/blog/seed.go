package blog

import (
	"context"
	"fmt"
)

var sampleBlogs = []Fields{
	{
		Title:   "The Future of EdTech",
		Content: "Long form content about educational technology trends...",
		Snippet: "Exploring the latest innovations in educational technology",
		Sector:  "Edtech",
		Author:  "John Doe",
	},
	{
		Title:   "FinTech Revolution",
		Content: "Detailed analysis of financial technology impact...",
		Snippet: "How digital payments are changing the financial landscape",
		Sector:  "Fintech",
		Author:  "Jane Smith",
	},
}

// SeedSamples writes the built-in sample posts, giving a fresh deployment
// something to show before any real content exists.
func (r *Repo) SeedSamples(ctx context.Context) error {
	for _, fields := range sampleBlogs {
		if _, err := r.Create(ctx, fields); err != nil {
			return fmt.Errorf("seed sample blog [%s]: %w", fields.Title, err)
		}
	}
	return nil
}
