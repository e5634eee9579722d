// ABOUTME: Cobra commands for the feedfinder CLI
// ABOUTME: discover prints title, feed URL and entry count per URL and fails when any URL has no feed

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"feedfinder-api/feedfinder"
	"feedfinder-api/infrastructure/logger/structured"
	"github.com/spf13/cobra"
)

// errNotAllFound makes the process exit non-zero after printing every result
var errNotAllFound = errors.New("no feed found for one or more URLs")

type discoverOptions struct {
	asJSON      bool
	timeout     time.Duration
	probe       bool
	verbose     bool
	userAgent   string
	concurrency int
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "feedfinder",
		Short:         "Find the RSS, Atom or JSON feed behind a URL",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDiscoverCmd())
	return root
}

func newDiscoverCmd() *cobra.Command {
	opts := &discoverOptions{}

	cmd := &cobra.Command{
		Use:   "discover <url>...",
		Short: "Discover the feed for each URL",
		Long: `Fetches each URL and parses it as a feed. When the URL is a web page,
the first feed the page advertises is fetched instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print results as JSON")
	cmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", 15*time.Second, "Timeout for each request")
	cmd.Flags().BoolVar(&opts.probe, "probe", false, "Try common feed paths when a page advertises none")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log each step to stderr")
	cmd.Flags().StringVar(&opts.userAgent, "user-agent", "", "User-Agent header to send")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "c", 4, "URLs to resolve at once")

	return cmd
}

// result is one line of JSON output
type result struct {
	URL   string           `json:"url"`
	Found bool             `json:"found"`
	Feed  *feedfinder.Feed `json:"feed,omitempty"`
	Error string           `json:"error,omitempty"`
}

func runDiscover(ctx context.Context, out, errOut io.Writer, opts *discoverOptions, urls []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	clientOpts := []feedfinder.Option{
		feedfinder.WithTimeout(opts.timeout),
		feedfinder.WithProbeCommonPaths(opts.probe),
		feedfinder.WithConcurrency(opts.concurrency),
	}
	if opts.userAgent != "" {
		clientOpts = append(clientOpts, feedfinder.WithUserAgent(opts.userAgent))
	}
	if opts.verbose {
		clientOpts = append(clientOpts, feedfinder.WithLogger(structured.New(structured.Options{
			Level:  "debug",
			Format: "text",
			Output: errOut,
		})))
	}

	client, err := feedfinder.NewClient(clientOpts...)
	if err != nil {
		return err
	}

	outcomes := client.DiscoverBatch(ctx, urls)

	results := make([]result, 0, len(urls))
	missing := 0
	for i, outcome := range outcomes {
		r := result{URL: urls[i], Found: outcome.Found()}
		if r.Found {
			r.Feed = outcome.Feed
		} else {
			missing++
			r.Error = string(outcome.Kind())
		}
		results = append(results, r)

		if !opts.asJSON {
			printResult(out, r)
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	}

	if missing > 0 {
		return errNotAllFound
	}
	return nil
}

func printResult(out io.Writer, r result) {
	if !r.Found {
		fmt.Fprintf(out, "%s\n  not found (%s)\n", r.URL, r.Error)
		return
	}

	title := r.Feed.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(out, "%s\n  title:   %s\n  feed:    %s\n  entries: %d\n", r.URL, title, r.Feed.FeedURL, len(r.Feed.Items))
}
