package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/haasonsaas/memorable/internal/config"
	"github.com/haasonsaas/memorable/internal/engine"
	"github.com/haasonsaas/memorable/internal/ranking"
	"github.com/haasonsaas/memorable/pkg/models"
)

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "memorable",
		Short:         "Salience scoring and retrieval ranking for the MemoRable memory system",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("MEMORABLE_CONFIG"), "path to config file")

	root.AddCommand(
		newScoreCommand(&configPath),
		newRetrieveCommand(&configPath),
		newFeedbackCommand(&configPath),
		newRecalibrateCommand(&configPath),
		newDaemonCommand(&configPath),
		newFadeCommand(&configPath),
	)
	return root
}

func openEngine(configPath string) (*engine.Engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return engine.New(cfg, engine.Options{})
}

func newScoreCommand(configPath *string) *cobra.Command {
	var (
		user        string
		contextType string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score extracted features from stdin and print the salience record",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(*configPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			var features models.ExtractedFeatures
			if err := json.NewDecoder(cmd.InOrStdin()).Decode(&features); err != nil {
				return fmt.Errorf("decode features: %w", err)
			}

			now := time.Now().UTC()
			capture := models.CaptureContextAt(now)
			if contextType != "" {
				capture.ContextType = models.ContextType(contextType)
			}

			score, err := eng.ScoreCapture(cmd.Context(), user, features, capture, now)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(score)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user id to score for")
	cmd.Flags().StringVar(&contextType, "context", "", "context type (work_meeting, social_event, ...)")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newRetrieveCommand(configPath *string) *cobra.Command {
	var (
		user    string
		query   string
		focus   string
		contact string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "retrieve",
		Short: "Rank candidate memories from stdin and log the retrieval",
		Long: `Reads a JSON array of memory candidates (pre-filtered semantic-search
hits) from stdin, ranks them, and prints the scored results alongside the
retrieval log entries created for the feedback loop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(*configPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			var candidates []models.MemoryCandidate
			if err := json.NewDecoder(cmd.InOrStdin()).Decode(&candidates); err != nil {
				return fmt.Errorf("decode candidates: %w", err)
			}

			results, logs, err := eng.Retrieve(cmd.Context(), engine.RetrieveRequest{
				UserID:     user,
				Query:      query,
				Candidates: candidates,
				Options: ranking.Options{
					Limit:   limit,
					Focus:   models.TemporalFocus(focus),
					Contact: contact,
				},
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Results []models.ScoredMemory      `json:"results"`
				Logs    []models.RetrievalLogEntry `json:"logs"`
			}{results, logs})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user id to retrieve for")
	cmd.Flags().StringVar(&query, "query", "", "retrieval query text, recorded in the log")
	cmd.Flags().StringVar(&focus, "focus", "", "temporal focus (recent, this_week, historical, upcoming)")
	cmd.Flags().StringVar(&contact, "contact", "", "restrict to memories about one person")
	cmd.Flags().IntVar(&limit, "limit", 0, "max results (0 uses the configured default)")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newFeedbackCommand(configPath *string) *cobra.Command {
	var (
		logID    string
		acted    bool
		feedback string
	)

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Record the outcome of a logged retrieval",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(*configPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.RecordFeedback(cmd.Context(), logID, acted, models.Feedback(feedback)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "recorded")
			return nil
		},
	}
	cmd.Flags().StringVar(&logID, "log", "", "retrieval log entry id")
	cmd.Flags().BoolVar(&acted, "acted", false, "the retrieval led to action")
	cmd.Flags().StringVar(&feedback, "feedback", "", "explicit classification (helpful, not_helpful, neutral)")
	cmd.MarkFlagRequired("log")
	return cmd
}

func newRecalibrateCommand(configPath *string) *cobra.Command {
	var (
		user string
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "recalibrate",
		Short: "Recompute learned weights from retrieval history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && user == "" {
				return fmt.Errorf("either --user or --all is required")
			}

			eng, err := openEngine(*configPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			if all {
				result, err := eng.RecalibrateAll(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"processed=%d updated=%d skipped=%d failed=%d\n",
					result.Processed, result.Updated, result.Skipped, result.Failed)
				return nil
			}

			weights, updated, err := eng.Recalibrate(cmd.Context(), user)
			if err != nil {
				return err
			}
			if !updated {
				fmt.Fprintf(cmd.OutOrStdout(),
					"insufficient samples (%d), weights unchanged\n", weights.SampleSize)
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(weights)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "recalibrate one user")
	cmd.Flags().BoolVar(&all, "all", false, "recalibrate every active user")
	return cmd
}

// newDaemonCommand runs the batch sweep on a cron schedule. The engine has
// no internal scheduler; this command is the external cron-like caller.
func newDaemonCommand(configPath *string) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run periodic weight recalibration sweeps",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(*configPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			runner := cron.New()
			_, err = runner.AddFunc(schedule, func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
				defer cancel()
				result, err := eng.RecalibrateAll(ctx)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "sweep failed: %v\n", err)
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"sweep: processed=%d updated=%d skipped=%d failed=%d\n",
					result.Processed, result.Updated, result.Skipped, result.Failed)
			})
			if err != nil {
				return fmt.Errorf("invalid schedule %q: %w", schedule, err)
			}

			runner.Start()
			defer runner.Stop()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig
			return nil
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", "0 3 * * *", "cron schedule for the sweep")
	return cmd
}

func newFadeCommand(configPath *string) *cobra.Command {
	var (
		base     float64
		accesses int
	)

	cmd := &cobra.Command{
		Use:   "fade",
		Short: "Report days until a memory fades below the attention threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(*configPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			days := eng.DaysUntilFade(base, accesses)
			if math.IsInf(days, 1) {
				fmt.Fprintln(cmd.OutOrStdout(), "never (decay floor keeps it above threshold)")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.1f days\n", days)
			return nil
		},
	}
	cmd.Flags().Float64Var(&base, "base", 50, "stored base salience")
	cmd.Flags().IntVar(&accesses, "accesses", 0, "recorded access count")
	return cmd
}
