package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexthire/nexthire/internal/question"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show today's practice progress and daily quiz averages",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		tr := newTracker(s)
		out := cmd.OutOrStdout()

		done, err := tr.Completions(ctx, cfg.UserID)
		if err != nil {
			return fmt.Errorf("query completions: %w", err)
		}

		fmt.Fprintf(out, "Practice on %s\n", tr.Today())
		for _, c := range question.Categories {
			mark := "·"
			switch {
			case c.Endless:
				mark = "∞"
			case done[string(c.ID)]:
				mark = "✓"
			}
			fmt.Fprintf(out, "  %s %s\n", mark, c.Name)
		}

		recs, err := s.ScoreStore().DailyScores(ctx, cfg.UserID, 30)
		if err != nil {
			return fmt.Errorf("query daily scores: %w", err)
		}
		fmt.Fprintln(out)
		if len(recs) == 0 {
			fmt.Fprintln(out, "Daily quiz: no results yet")
			return nil
		}

		var score, total, best int
		for _, r := range recs {
			score += r.Score
			total += r.Total
			best = max(best, r.Score)
		}
		fmt.Fprintf(out, "Daily quiz (last %d)\n", len(recs))
		fmt.Fprintf(out, "  Average:  %.1f%%\n", 100*float64(score)/float64(max(total, 1)))
		fmt.Fprintf(out, "  Best:     %d/%d\n", best, question.DailyQuestionCount)
		return nil
	},
}
