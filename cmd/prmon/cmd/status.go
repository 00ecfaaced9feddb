package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/wangxiyuan/pr-notification/github"
	"github.com/wangxiyuan/pr-notification/monitor"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <pull request url>",
	Short: "Fetch a pull request status once",
	Long: `Fetch the current status of a pull request and print it.
Example: prmon status https://github.com/rancher/rke2/pull/1234`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("expected exactly one argument: <pull request url>")
		}

		ref, err := monitor.ParseURL(args[0])
		if err != nil {
			return err
		}

		token := rootConfig.GithubToken
		if env := os.Getenv("GITHUB_TOKEN"); env != "" {
			token = env
		}

		ctx := context.Background()
		fetcher := monitor.NewFetcher(github.NewClient(ctx, token))

		status, err := fetcher.Fetch(ctx, ref)
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		switch outputFormat {
		case "json":
			b, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(b))
		case "yaml":
			b, err := yaml.Marshal(status)
			if err != nil {
				return err
			}
			fmt.Print(string(b))
		case "table":
			table(os.Stdout, ref, status)
		default:
			return errors.New("unrecognized format")
		}

		return nil
	},
}

func table(w io.Writer, ref monitor.PullRequestRef, status *monitor.Status) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "pull request\t%s\n", ref)
	fmt.Fprintf(tw, "title\t%s\n", status.Title)
	fmt.Fprintf(tw, "author\t%s\n", status.Author)
	fmt.Fprintf(tw, "state\t%s\n", status.State)
	if status.Draft {
		fmt.Fprintf(tw, "draft\tyes\n")
	}
	fmt.Fprintf(tw, "ci\t%s\n", status.CIState)
	fmt.Fprintf(tw, "review\t%s\n", status.ReviewState)
	fmt.Fprintf(tw, "mergeable\t%s\n", status.Mergeable)
	fmt.Fprintf(tw, "created\t%s\n", status.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(tw, "updated\t%s\n", status.UpdatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(tw, "url\t%s\n", status.URL)
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringP("output", "o", "table", "Output format (table|json|yaml)")
}
