package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/mail-agent/internal/agent"
	"github.com/nhle/mail-agent/internal/logger"
	"github.com/nhle/mail-agent/internal/schedule"
	"github.com/nhle/mail-agent/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the auto-responder loop",
	Long: `Run starts the agent: unread mail is fetched and classified on the
intake cadence, and accepted messages are answered on the dispatch
cadence after their randomized hold time, inside the configured daily
window. The loop runs until interrupted.`,
	RunE: runAgent,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runAgent(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Initialize(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	// Missing credentials are fatal at startup, before any loop runs.
	client, err := newMailboxClient(cfg)
	if err != nil {
		return err
	}
	sender, err := newSender(cfg)
	if err != nil {
		return err
	}
	generator, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer st.Close()

	a := agent.New(cfg.Agent, agent.Deps{
		Mailbox:    client,
		Sender:     sender,
		Generator:  generator,
		Classifier: newClassifier(cfg),
		Planner:    schedule.NewPlanner(cfg.Schedule),
		Store:      st,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Restore(ctx); err != nil {
		return fmt.Errorf("restoring pending replies: %w", err)
	}

	logger.Info("agent started",
		"intake_interval", cfg.Agent.IntakeInterval(),
		"dispatch_interval", cfg.Agent.DispatchInterval(),
		"window_start", cfg.Schedule.StartHour,
		"window_end", cfg.Schedule.EndHour,
		"pending", a.QueueLen())

	a.Run(ctx)

	logger.Info("agent stopped")
	return nil
}
