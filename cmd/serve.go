package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptquiz/internal/cache"
	"github.com/abhisek/adaptquiz/internal/coach"
	"github.com/abhisek/adaptquiz/internal/config"
	"github.com/abhisek/adaptquiz/internal/ingest"
	"github.com/abhisek/adaptquiz/internal/llm"
	"github.com/abhisek/adaptquiz/internal/questiongen"
	"github.com/abhisek/adaptquiz/internal/quiz"
	"github.com/abhisek/adaptquiz/internal/store"
	"github.com/abhisek/adaptquiz/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the quiz web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides ADDR env var)")
	serveCmd.Flags().Duration("prune-interval", 10*time.Minute, "How often expired quiz sessions are deleted")
	serveCmd.Flags().Bool("secure-cookie", false, "Mark the session cookie Secure (serve behind HTTPS)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	pruneEvery, _ := cmd.Flags().GetDuration("prune-interval")
	secure, _ := cmd.Flags().GetBool("secure-cookie")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo())
	if err != nil {
		return fmt.Errorf("configure LLM provider: %w", err)
	}
	if cfg.PDFPath == "" {
		logger.Warn("PDF_PATH is not set; the question bank cannot be replenished")
	}

	sessions, closeSessions, err := quizSessionRepo(ctx, cfg, st)
	if err != nil {
		return err
	}
	defer closeSessions()

	source := ingest.NewPDFSource(cfg.PDFPath, cfg.SourceMaxChars)
	gen := questiongen.New(provider, questiongen.DefaultConfig(), logger)
	replenisher := questiongen.NewReplenisher(source, gen, st.Questions(), logger)

	srv, err := web.New(web.Options{
		Users:        st.Users(),
		Stats:        st.Stats(),
		Sessions:     sessions,
		Selector:     quiz.NewSelector(st.Questions(), replenisher, logger),
		Coach:        coach.New(provider, coach.DefaultConfig(), logger),
		SecretKey:    cfg.SecretKey,
		PerQuiz:      cfg.QuestionsPerQuiz,
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: secure,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      writeTimeout(cfg.LLM.Timeout),
		IdleTimeout:       60 * time.Second,
	}

	if cfg.SessionBackend == "sqlite" {
		go pruneSessions(ctx, sessions, pruneEvery, logger)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			"address", cfg.Addr,
			"provider", cfg.LLM.Provider,
			"model", provider.ModelID(),
			"sessions", cfg.SessionBackend,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	logger.Info("shutting down server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// quizSessionRepo picks where in-progress quizzes live. Redis lets
// several server processes share sessions; SQLite needs nothing extra.
// writeTimeout leaves room for a synchronous LLM call inside a request.
// A disabled LLM timeout disables the write timeout too.
func writeTimeout(llmTimeout time.Duration) time.Duration {
	if llmTimeout <= 0 {
		return 0
	}
	return llmTimeout + 30*time.Second
}

func quizSessionRepo(ctx context.Context, cfg *config.Config, st *store.Store) (store.QuizSessionRepo, func(), error) {
	if cfg.SessionBackend != "redis" {
		return st.QuizSessions(), func() {}, nil
	}
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := cache.Dial(dialCtx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect quiz session cache: %w", err)
	}
	return cache.NewQuizSessions(client, cache.DefaultPrefix), func() { client.Close() }, nil
}

// pruneSessions deletes expired quiz sessions every interval until ctx
// is done.
func pruneSessions(ctx context.Context, repo store.QuizSessionRepo, every time.Duration, logger *slog.Logger) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := repo.Prune(ctx, now)
			if err != nil {
				logger.Warn("prune quiz sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("pruned expired quiz sessions", "count", n)
			}
		}
	}
}
