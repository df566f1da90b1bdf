package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Inspect daily quiz results",
}

var dailyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's daily quiz score and streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		tr := newTracker(s)
		out := cmd.OutOrStdout()

		rec, err := tr.TodaysScore(ctx, cfg.UserID)
		if err != nil {
			return fmt.Errorf("query today's score: %w", err)
		}
		st, err := tr.Streak(ctx, cfg.UserID)
		if err != nil {
			return fmt.Errorf("query streak: %w", err)
		}

		fmt.Fprintf(out, "Day:     %s\n", tr.Today())
		if rec == nil {
			fmt.Fprintln(out, "Score:   not taken yet")
		} else {
			fmt.Fprintf(out, "Score:   %d/%d (completed %s)\n",
				rec.Score, rec.Total, rec.CompletedAt.Local().Format("15:04"))
		}
		streak := 0
		if tr.Alive(st) {
			streak = st.DailyQuizStreak
		}
		fmt.Fprintf(out, "Streak:  %d\n", streak)
		return nil
	},
}

var dailyHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past daily quiz scores, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.ScoreStore().DailyScores(cmd.Context(), cfg.UserID, limit)
		if err != nil {
			return fmt.Errorf("query daily scores: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No daily quizzes taken yet.")
			return nil
		}

		fmt.Fprintf(out, "%-10s  %7s  %s\n", "Day", "Score", "")
		fmt.Fprintln(out, strings.Repeat("─", 42))
		for _, r := range recs {
			fmt.Fprintf(out, "%-10s  %3d/%-3d  %s\n", r.Date, r.Score, r.Total, scoreBar(r.Score, r.Total, 20))
		}
		return nil
	},
}

// scoreBar renders score/total as a bar of the given width.
func scoreBar(score, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := min(score*width/total, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func init() {
	dailyHistoryCmd.Flags().IntP("limit", "n", 14, "Number of days to show")

	dailyCmd.AddCommand(dailyStatusCmd)
	dailyCmd.AddCommand(dailyHistoryCmd)
}
