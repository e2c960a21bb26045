// ABOUTME: Command line entry point for the paperfeed engine
// ABOUTME: Dispatches locate, fetch, aggregate, merge and register subcommands and prints JSON

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"paperfeed-engine/core/domain"
	coreerrors "paperfeed-engine/core/errors"
	"paperfeed-engine/core/interfaces"
	"paperfeed-engine/feedengine"
	"paperfeed-engine/pkg/config"
)

// Exit codes by error kind
const (
	exitFailure = iota + 1
	exitUsage
	exitNotFound
	exitNetwork
	exitBadFeed
)

type command func(ctx context.Context, client *feedengine.Client, args []string, out io.Writer) error

var commands = map[string]command{
	"locate":    cmdLocate,
	"fetch":     cmdFetch,
	"aggregate": cmdAggregate,
	"merge":     cmdMerge,
	"register":  cmdRegister,
}

func main() {
	if len(os.Args) < 2 {
		printHelp(os.Stderr)
		os.Exit(exitUsage)
	}

	name := os.Args[1]
	switch name {
	case "--help", "-h", "help":
		printHelp(os.Stdout)
		return
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", name)
		printHelp(os.Stderr)
		os.Exit(exitUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger := feedengine.NewLogger(config.LogConfig{Level: "info"})
		os.Exit(reportError(logger, name, fmt.Errorf("failed to load configuration: %w", err)))
	}

	client, err := feedengine.FromConfig(ctx, cfg)
	if err != nil {
		os.Exit(reportError(feedengine.NewLogger(cfg.Log), name, err))
	}

	err = cmd(ctx, client, os.Args[2:], os.Stdout)
	if cerr := client.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		os.Exit(reportError(client.Logger(), name, err))
	}
}

// reportError logs a failed command and returns its exit code.
// flag.ErrHelp has already printed usage and is not logged.
func reportError(logger interfaces.Logger, name string, err error) int {
	if !errors.Is(err, flag.ErrHelp) {
		logger.Error("Command failed", map[string]interface{}{
			"command": name,
			"kind":    coreerrors.Kind(err),
			"error":   err.Error(),
		})
	}
	return exitCode(err)
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `Usage:
  paperfeed COMMAND [OPTIONS]

Commands:
   locate      find the feed behind a web page (-url, -timeout, -describe)
   fetch       fetch a feed and print a page of articles (-url, -skip, -limit)
   aggregate   build the digest for an issue (-issue, -days, -max, -publish)
   merge       merge several feeds newest first (-period, then feed URLs)
   register    discover a page's feed and add it to an issue (-issue, -url, -title, -remove-images)

Configuration is read from the environment, an optional .env file and CONFIG_FILE.
`)
}

func exitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return exitUsage
	}
	switch coreerrors.Kind(err) {
	case coreerrors.KindInvalidArgument:
		return exitUsage
	case coreerrors.KindNotFound:
		return exitNotFound
	case coreerrors.KindNetwork:
		return exitNetwork
	case coreerrors.KindParse, coreerrors.KindValidation:
		return exitBadFeed
	default:
		return exitFailure
	}
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usageError(flagName string) error {
	return &coreerrors.InvalidArgumentError{Field: flagName, Message: "is required"}
}

// timeoutSeconds rounds a positive duration up to whole seconds
func timeoutSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func cmdLocate(ctx context.Context, client *feedengine.Client, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("locate", flag.ContinueOnError)
	pageURL := fset.String("url", "", "web page to search for a feed")
	timeout := fset.Duration("timeout", 10*time.Second, "timeout for each discovery request")
	describe := fset.Bool("describe", false, "also fetch the feed and print its channel info")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*pageURL) == "" {
		return usageError("url")
	}

	if *describe {
		info, err := client.DiscoverPublication(ctx, *pageURL, timeoutSeconds(*timeout))
		if err != nil {
			return err
		}
		return writeJSON(out, info)
	}

	feedURL, found, err := client.LocateFeed(ctx, *pageURL, timeoutSeconds(*timeout))
	if err != nil {
		return err
	}
	return writeJSON(out, map[string]interface{}{
		"page_url": *pageURL,
		"feed_url": feedURL,
		"found":    found,
	})
}

func cmdFetch(ctx context.Context, client *feedengine.Client, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("fetch", flag.ContinueOnError)
	feedURL := fset.String("url", "", "feed URL")
	skip := fset.Int("skip", 0, "articles to skip")
	limit := fset.Int("limit", 10, "maximum articles to print")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*feedURL) == "" {
		return usageError("url")
	}

	articles, total, err := client.GetArticles(ctx, *feedURL, *skip, *limit)
	if err != nil {
		return err
	}
	return writeJSON(out, map[string]interface{}{
		"url":      *feedURL,
		"total":    total,
		"skip":     *skip,
		"articles": articles,
	})
}

func cmdAggregate(ctx context.Context, client *feedengine.Client, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("aggregate", flag.ContinueOnError)
	issueID := fset.String("issue", "", "issue id")
	days := fset.Int("days", 7, "days back to include")
	maxPer := fset.Int("max", 5, "maximum articles per publication")
	publish := fset.Bool("publish", false, "send the digest to the configured publisher")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*issueID) == "" {
		return usageError("issue")
	}

	digest, err := client.AggregateRecentArticles(ctx, *issueID, *days, *maxPer)
	if err != nil {
		return err
	}
	if *publish {
		if err := client.PublishDigest(ctx, digest); err != nil {
			return err
		}
	}
	return writeJSON(out, digest)
}

func cmdMerge(ctx context.Context, client *feedengine.Client, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("merge", flag.ContinueOnError)
	period := fset.String("period", "", "last-week, last-month or YYYY-MM-DD,YYYY-MM-DD")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() == 0 {
		return &coreerrors.InvalidArgumentError{Field: "urls", Message: "at least one feed URL is required"}
	}

	result, err := client.MergeFeeds(ctx, fset.Args(), *period)
	if err != nil {
		return err
	}
	return writeJSON(out, map[string]interface{}{
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"articles":  result.Articles,
	})
}

func cmdRegister(ctx context.Context, client *feedengine.Client, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("register", flag.ContinueOnError)
	issueID := fset.String("issue", "", "issue id")
	title := fset.String("title", "", "issue title; defaults to the id")
	pageURL := fset.String("url", "", "publication web page or feed URL")
	removeImages := fset.Bool("remove-images", false, "ask the renderer to strip images")
	timeout := fset.Duration("timeout", 10*time.Second, "timeout for each discovery request")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*issueID) == "" {
		return usageError("issue")
	}
	if strings.TrimSpace(*pageURL) == "" {
		return usageError("url")
	}

	pub, err := client.RegisterPublication(ctx, domain.Issue{ID: *issueID, Title: *title}, *pageURL, *removeImages, timeoutSeconds(*timeout))
	if err != nil {
		return err
	}
	return writeJSON(out, pub)
}
