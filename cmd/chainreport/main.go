package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/chainreport/internal/cliconfig"
	"github.com/bft-labs/chainreport/internal/domain"
)

const helpDescription = `
Publish a daily report about a blockchain as a Twitter thread.

Each run:
  - collects yesterday's chain statistics into tab-separated report files,
  - asks a language model (Ragflow or Gemini) to write a report from them,
  - splits the answer into tweets and posts them as a reply chain.

Configure via $HOME/.chainreport/config.toml, CHAINREPORT_* environment
variables, a .env file, or flags (flags win).
`

var exampleUsage = strings.TrimSpace(`
  chainreport                       # collect, summarize and post
  chainreport collect --days 7
  chainreport post --dry-run
  chainreport split ./draft.txt --max-length 140
  chainreport watch --history-db ~/.chainreport/history.db
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	c := newCLI()
	root := c.rootCommand()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()

	if err != nil {
		log := cliconfig.Logger()
		log.Error().Err(err).Msg("chainreport")
		os.Exit(exitCode(err))
	}
}

// exitCode maps a failed run to a process exit code.
func exitCode(err error) int {
	var rerr *domain.RunError
	if !errors.As(err, &rerr) {
		return 1
	}
	switch rerr.Kind {
	case domain.KindInputMissing:
		return 2
	case domain.KindTransportFailure:
		return 3
	default:
		return 1
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "chainreport",
		Short:         "Publish a daily blockchain report as a Twitter thread",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStages(cmd.Context())
		},
	}
	c.bindFlags(root)

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Collect, summarize and post",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runStages(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "collect",
			Short: "Fetch daily statistics into report files",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runStages(cmd.Context(), domain.StageCollect)
			},
		},
		&cobra.Command{
			Use:   "summarize",
			Short: "Combine report files and write the answer file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runStages(cmd.Context(), domain.StageSummarize)
			},
		},
		&cobra.Command{
			Use:   "post",
			Short: "Post the answer file as a thread",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runStages(cmd.Context(), domain.StagePost)
			},
		},
		c.splitCommand(),
		c.watchCommand(),
		c.historyCommand(),
	)
	return root
}
