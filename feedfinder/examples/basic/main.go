// ABOUTME: Basic example showing feed discovery with the FeedFinder library
// ABOUTME: Resolves a few site URLs and prints what was found

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"feedfinder-api/feedfinder"
	"feedfinder-api/infrastructure/cache/memory"
)

func main() {
	client, err := feedfinder.NewClient(
		feedfinder.WithTimeout(10*time.Second),
		feedfinder.WithCache(memory.NewMemoryCache(), time.Hour),
	)
	if err != nil {
		log.Fatal("Failed to create client:", err)
	}

	ctx := context.Background()
	for _, u := range []string{
		"https://go.dev/blog",
		"https://github.com/golang/go",
		"https://example.com",
	} {
		outcome := client.DiscoverOutcome(ctx, u)
		if !outcome.Found() {
			fmt.Printf("%s: no feed (%s)\n", u, outcome.Kind())
			continue
		}
		fmt.Printf("%s: %s at %s with %d items\n", u, outcome.Feed.Title, outcome.Feed.FeedURL, len(outcome.Feed.Items))
	}
}
