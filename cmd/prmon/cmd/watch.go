package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wangxiyuan/pr-notification/cmd/prmon/watch"
	"github.com/wangxiyuan/pr-notification/github"
	"github.com/wangxiyuan/pr-notification/monitor"
)

var (
	watchInterval int
	watchPlain    bool
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [pull request url ...]",
	Short: "Poll pull requests and show their status",
	Long: `Poll pull requests on a fixed interval. By default an interactive
watch list opens; --plain monitors a single pull request and logs every
tick, which suits non-TTY use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := time.Duration(watchInterval) * time.Second
		if !cmd.Flags().Changed("interval") {
			interval = time.Duration(rootConfig.RefreshInterval) * time.Second
		}

		token := rootConfig.GithubToken
		if env := os.Getenv("GITHUB_TOKEN"); env != "" {
			token = env
		}

		ctx := context.Background()
		fetcher := monitor.NewFetcher(github.NewClient(ctx, token))

		if watchPlain {
			if len(args) != 1 {
				return errors.New("--plain expects exactly one pull request url")
			}
			return runPlain(args[0], interval, fetcher)
		}

		refs := make([]monitor.PullRequestRef, 0, len(args))
		for _, arg := range args {
			ref, err := monitor.ParseURL(arg)
			if err != nil {
				return err
			}
			refs = append(refs, ref)
		}

		watchFile, err := rootConfig.WatchFilePath()
		if err != nil {
			return err
		}

		app, err := watch.New(fetcher, interval, watchFile, refs)
		if err != nil {
			return err
		}

		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func runPlain(rawURL string, interval time.Duration, fetcher monitor.StatusFetcher) error {
	loop := monitor.NewLoop(fetcher)
	if err := loop.Start(rawURL, interval); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().IntVarP(&watchInterval, "interval", "i", 30, "refresh interval in seconds (10-300)")
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "log to stdout instead of opening the watch list")
}
