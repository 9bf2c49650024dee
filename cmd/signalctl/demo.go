package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quotely/signal/internal/errors"
	"github.com/quotely/signal/pkg/bridge"
	"github.com/quotely/signal/pkg/persist"
	"github.com/quotely/signal/pkg/quotes"
	"github.com/quotely/signal/pkg/reactive"
)

var demoQuotes = []quotes.Quote{
	{ID: "q1", Content: "The only way to do great work is to love what you do.", Author: "Steve Jobs", Rating: 5},
	{ID: "q2", Content: "Simplicity is prerequisite for reliability.", Author: "Edsger W. Dijkstra", Rating: 4},
	{ID: "q3", Content: "Premature optimization is the root of all evil.", Author: "Donald Knuth", Rating: 3},
}

func demoCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through the board in memory and print what consumers see",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			return runDemo(cmd.Context(), logger)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every signal write")
	return cmd
}

func runDemo(ctx context.Context, logger *slog.Logger) error {
	storage, err := quotes.NewStorage(ctx, persist.NewMemoryStore(), quotes.WithStorageLogger(logger))
	if err != nil {
		return errors.FromError(err, "P001")
	}
	board := quotes.NewBoard(storage, reactive.WithLogger(logger))

	favorites := bridge.Bind(board.Signal(), quotes.Favorites(), func(qs []quotes.Quote) {
		info("favorites re-rendered: %d quote(s)", len(qs))
	})
	defer favorites.Close()

	count := bridge.Bind(board.Signal(), quotes.Count(), func(n int) {
		info("count re-rendered: %d", n)
	})
	defer count.Close()

	for _, q := range demoQuotes {
		if _, err := board.Add(ctx, q); err != nil {
			return err
		}
		success("added %q", q.Author)
	}

	if hit, err := board.Add(ctx, demoQuotes[0]); err != nil {
		return err
	} else if hit.FromCache {
		success("re-adding %s was a cache hit", hit.ID)
	}

	if err := board.Like(ctx, "q2", true); err != nil {
		return err
	}
	success("liked q2")

	if err := board.Rate(ctx, "q3", 1); err != nil {
		return err
	}
	success("rated q3 (favorites unchanged, no re-render)")

	fmt.Println()
	info("notifications: favorites=%d count=%d", favorites.Notifications(), count.Notifications())
	info("re-renders:    favorites=%d count=%d", favorites.Renders(), count.Renders())
	return nil
}
