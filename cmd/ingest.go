package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptquiz/internal/ingest"
	"github.com/abhisek/adaptquiz/internal/llm"
	"github.com/abhisek/adaptquiz/internal/questiongen"
	"github.com/abhisek/adaptquiz/internal/store"
	"github.com/abhisek/adaptquiz/internal/ui/theme"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Generate questions from the textbook PDF into the question bank",
	Long: "ingest extracts the text of PDF_PATH and asks the LLM for questions.\n" +
		"Without flags it requests every category at every difficulty.",
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("pdf", "", "Textbook PDF (overrides PDF_PATH env var)")
	ingestCmd.Flags().String("difficulty", "", "Only generate this difficulty (easy, medium, hard)")
	ingestCmd.Flags().String("category", "", "Only generate this category")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("pdf"); p != "" {
		cfg.PDFPath = p
	}

	var target questiongen.Target
	if d, _ := cmd.Flags().GetString("difficulty"); d != "" {
		diff, ok := store.ParseDifficulty(d)
		if !ok {
			return fmt.Errorf("unknown difficulty %q", d)
		}
		target.Difficulty = diff
	}
	target.Category, _ = cmd.Flags().GetString("category")

	ctx := cmd.Context()
	text, err := ingest.NewPDFSource(cfg.PDFPath, cfg.SourceMaxChars).Text(ctx)
	if err != nil {
		return fmt.Errorf("read textbook: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo())
	if err != nil {
		return fmt.Errorf("configure LLM provider: %w", err)
	}

	target.Existing, err = st.Questions().Prompts(ctx, target.Difficulty, target.Category, 0)
	if err != nil {
		return err
	}

	res := questiongen.New(provider, questiongen.DefaultConfig(), logger).Generate(ctx, text, target)
	if res.Outcome != llm.OutcomeSuccess {
		if res.Err != nil {
			return fmt.Errorf("generate questions (%s): %w", res.Outcome, res.Err)
		}
		fmt.Println(theme.Weak.Render(fmt.Sprintf("No usable questions generated (%d dropped).", res.Dropped)))
		return nil
	}
	if err := st.Questions().Save(ctx, res.Questions); err != nil {
		return err
	}

	total, err := st.Questions().Count(ctx)
	if err != nil {
		return err
	}
	fmt.Println(theme.Strong.Render(fmt.Sprintf("Stored %d question(s)", len(res.Questions))) +
		theme.Dim.Render(fmt.Sprintf(" (%d dropped, %d in bank)", res.Dropped, total)))
	return nil
}
