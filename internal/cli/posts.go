package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/maheshrc27/autoposter/cmd/app"
	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/internal/repository"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [ideas.json]",
	Short: "Turn raw ideas into skeleton posts",
	Long: `Without arguments, ingests the stored raw ideas and clears them.
With a file, ingests the ideas it lists in the {"posts": [...]} format.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Resolve the next pending post",
	RunE:  runGenerate,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate one post and publish on every platform",
	RunE:  runRun,
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next post matching a status and filters",
	RunE:  runNext,
}

var markCmd = &cobra.Command{
	Use:   "mark [id] [platform] [status]",
	Short: "Set the posting status of a post on one platform",
	Args:  cobra.ExactArgs(3),
	RunE:  runMark,
}

func init() {
	nextCmd.Flags().String("status-key", "x_status", "Status field to match")
	nextCmd.Flags().String("status-value", string(models.StatusNotPosted), "Value of the status field")
	nextCmd.Flags().StringSlice("filter", []string{"is_processed=true"}, "Extra key=value filters")
}

func withServices(fn func(s *app.Services) error) error {
	services, closeStore, err := app.App(cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(services)
}

func runIngest(cmd *cobra.Command, args []string) error {
	return withServices(func(s *app.Services) error {
		var (
			created *models.PostCollection
			err     error
		)

		if len(args) == 0 {
			created, err = s.Generator.GeneratePosts(cmd.Context())
		} else {
			var ideas models.IdeaCollection
			data, readErr := os.ReadFile(args[0])
			if readErr != nil {
				return readErr
			}
			if err := json.Unmarshal(data, &ideas); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			created, err = s.Generator.IngestRawIdeas(cmd.Context(), ideas.Posts)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d ideas.\n", len(created.Posts))
		for _, p := range created.Posts {
			fmt.Fprintf(cmd.OutOrStdout(), "  %d  %-34s  %-5s  threads=%d\n", p.ID, p.PostType, p.Theme, len(p.Threads))
		}
		return nil
	})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	return withServices(func(s *app.Services) error {
		post, err := s.Generator.ResolveNextPost(cmd.Context())
		if err != nil {
			return err
		}
		if post == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No pending posts.")
			return nil
		}
		return printJSON(cmd, post)
	})
}

func runRun(cmd *cobra.Command, args []string) error {
	return withServices(func(s *app.Services) error {
		res, err := s.Publish.RunPosts(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	})
}

func runNext(cmd *cobra.Command, args []string) error {
	statusKey, _ := cmd.Flags().GetString("status-key")
	statusValue, _ := cmd.Flags().GetString("status-value")
	rawFilters, _ := cmd.Flags().GetStringSlice("filter")

	filters, err := parseFilters(rawFilters)
	if err != nil {
		return err
	}

	return withServices(func(s *app.Services) error {
		post, err := s.Posts.NextPostBy(cmd.Context(), statusKey, repository.ParseFieldValue(statusKey, statusValue), filters)
		if err != nil {
			return err
		}
		if post == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching post.")
			return nil
		}
		return printJSON(cmd, post)
	})
}

func runMark(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid post id %q", args[0])
	}

	return withServices(func(s *app.Services) error {
		if err := s.Posts.MarkPlatformStatus(cmd.Context(), id, args[1], models.PostingStatus(args[2])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Post %d marked %s on %s.\n", id, args[2], args[1])
		return nil
	})
}

func parseFilters(raw []string) (map[string]any, error) {
	filters := map[string]any{}
	for _, f := range raw {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q, expected key=value", f)
		}
		filters[key] = repository.ParseFieldValue(key, value)
	}
	return filters, nil
}
