package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/bft-labs/chainreport/internal/adapters/sqlite"
	"github.com/bft-labs/chainreport/internal/app"
	"github.com/bft-labs/chainreport/pkg/thread"
)

func (c *cli) splitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "split [file]",
		Short: "Preview how a text is split into tweets",
		Long: "Split a text file (or stdin with \"-\") into tweets and print them. " +
			"Without an argument the answer file in the output directory is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var chunks []string
			if len(args) == 0 {
				p := app.NewPublisher(app.PublisherConfig{MaxLength: c.cfg.MaxTweetLength},
					c.store(), nil, thread.NoPacer{}, nil, nil, c.logger(), c.metrics)
				var err error
				if chunks, err = p.Chunks(); err != nil {
					return err
				}
			} else {
				text, err := readInput(cmd.InOrStdin(), args[0])
				if err != nil {
					return err
				}
				chunks = thread.Split(text, c.cfg.MaxTweetLength)
			}
			printChunks(cmd.OutOrStdout(), chunks, c.cfg.MaxTweetLength)
			return nil
		},
	}
}

func readInput(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(b), nil
}

func printChunks(w io.Writer, chunks []string, maxLength int) {
	for i, chunk := range chunks {
		fmt.Fprintf(w, "--- %d/%d (%d/%d) ---\n%s\n", i+1, len(chunks), utf8.RuneCountInString(chunk), maxLength, chunk)
	}
	if len(chunks) == 0 {
		fmt.Fprintln(w, "nothing to post")
	}
}

func (c *cli) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Post the answer file every time it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, closeHistory, err := c.publisher(ctx)
			if err != nil {
				return err
			}
			defer closeHistory()

			w := app.NewWatcher(app.WatcherConfig{
				Path:     c.store().ReportPath(),
				Debounce: c.cfg.WatchDebounce,
			}, p, c.logger())
			if err := w.Run(ctx); err != nil {
				return err
			}
			c.log.Info().Msg("received signal, stopped watching")
			return nil
		},
	}
}

func (c *cli) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently posted tweets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.HistoryDB == "" {
				return fmt.Errorf("history-db is not configured")
			}
			h, err := sqlite.OpenHistory(cmd.Context(), c.cfg.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer h.Close()

			entries, err := h.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "POSTED\tRUN\tPOS\tID\tTEXT")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					e.PostedAt.Local().Format(time.DateTime),
					shorten(e.RunID, 8),
					e.Position+1,
					e.PostID,
					shorten(strings.ReplaceAll(e.Text, "\n", " "), 60),
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of posts to show")
	return cmd
}

// shorten cuts s to n runes, marking the cut with "...".
func shorten(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
