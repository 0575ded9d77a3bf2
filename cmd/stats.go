package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptquiz/internal/coach"
	"github.com/abhisek/adaptquiz/internal/store"
	"github.com/abhisek/adaptquiz/internal/ui/components"
)

var statsCmd = &cobra.Command{
	Use:   "stats <username>",
	Short: "Show a user's category statistics and latest study plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		width, _ := cmd.Flags().GetInt("width")

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		u, err := st.Users().ByUsername(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("user %q not found", args[0])
		}
		if err != nil {
			return err
		}
		stats, err := st.Stats().UserStats(ctx, u.ID, cfg.QuestionsPerQuiz)
		if err != nil {
			return err
		}
		plan, err := st.Stats().LatestStudyPlan(ctx, u.ID)
		if err != nil {
			return err
		}

		fmt.Println(components.StatsReport(u.Username, stats, coach.PlanItems(plan), width))
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("width", 64, "Report width in columns")
}
