package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/reconrun/reconrun/internal/artifacts"
	"github.com/reconrun/reconrun/internal/config"
	"github.com/reconrun/reconrun/internal/metrics"
	"github.com/reconrun/reconrun/internal/recon"
	"github.com/reconrun/reconrun/internal/verify"
)

const (
	appName = "reconrun"
	version = "v1.5.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Reconciliation & integrity audit engine for the trading ledger",
		Version: version,
		Long: `reconrun audits a trading period day by day: it recomputes what the
signal should have decided from market evidence, compares that against the
execution ledger, flags anomalies, and publishes an immutable daily log plus
a summary. It never trades and never mutates the ledger.`,
	}

	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Run a single reconciliation pass over a period",
		RunE:  runAudit,
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Run the reconciliation twice and gate publication on determinism",
		RunE:  runVerify,
	}

	for _, cmd := range []*cobra.Command{auditCmd, verifyCmd} {
		addPeriodFlags(cmd.Flags())
	}

	rootCmd.AddCommand(auditCmd, verifyCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func addPeriodFlags(flags *pflag.FlagSet) {
	flags.String("from", "", "Period start (YYYY-MM-DD)")
	flags.String("to", "", "Period end (YYYY-MM-DD)")
	flags.String("config", "", "Path to YAML config (defaults used when omitted)")
}

func setup(cmd *cobra.Command) (cfg config.Config, from, to string, err error) {
	from, _ = cmd.Flags().GetString("from")
	to, _ = cmd.Flags().GetString("to")
	if from == "" || to == "" {
		return cfg, "", "", fmt.Errorf("--from and --to are required")
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		cfg = config.Default()
	} else if cfg, err = config.Load(configPath); err != nil {
		return cfg, "", "", err
	}
	return cfg, from, to, nil
}

func runAudit(cmd *cobra.Command, _ []string) error {
	cfg, from, to, err := setup(cmd)
	if err != nil {
		return err
	}

	store := artifacts.NewStore(cfg.Output.Dir)
	reg := metrics.NewRegistry()
	runner := recon.NewRunner(cfg, store, reg, log.Logger)

	result, err := runner.Run(cmd.Context(), from, to)
	if err != nil {
		return err
	}
	if result.Failed() {
		return fmt.Errorf("run failed closed: %s", result.Envelope.Error.Code)
	}

	log.Info().
		Str("summary", store.SummaryPath()).
		Str("daily_log", store.DailyPath()).
		Int("critical_days", result.Summary.Integrity.CriticalDays).
		Msg("audit complete")
	return nil
}

func runVerify(cmd *cobra.Command, _ []string) error {
	cfg, from, to, err := setup(cmd)
	if err != nil {
		return err
	}

	store := artifacts.NewStore(cfg.Output.Dir)
	reg := metrics.NewRegistry()
	runner := recon.NewRunner(cfg, store, reg, log.Logger)
	verifier := verify.NewVerifier(runner, store, reg, log.Logger)

	report, err := verifier.Verify(cmd.Context(), from, to)
	if err != nil {
		return err
	}

	log.Info().
		Str("hash", report.Run1Hash).
		Str("report", store.DeterminismPath()).
		Msg("determinism verified, summary published")
	return nil
}
