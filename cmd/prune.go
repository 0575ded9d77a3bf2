package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired quiz sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.SessionBackend == "redis" {
			fmt.Println("Quiz sessions are in Redis, which expires them on its own.")
			return nil
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.QuizSessions().Prune(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d expired quiz session(s).\n", n)
		return nil
	},
}
