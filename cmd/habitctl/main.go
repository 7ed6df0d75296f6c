// Command habitctl inspects a habit log from the shell and manages the Postgres copy of it.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-dashboard/internal/config"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/services"
	"github.com/comitanigiacomo/kanso-dashboard/pkg/logger"
)

const usage = `usage: habitctl <command> [flags]

commands:
  weeks          list the weeks of the habit log
  scores         print a leaderboard (--week all|N, --habit all|NAME)
  import         copy a CSV habit log into Postgres
  hash-password  print the bcrypt hash for auth.viewer_password_hash
  token          issue a viewer token signed with auth.jwt_secret`

var errUsage = errors.New("invalid usage")

func main() {
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
		}
		exitWithError(err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "weeks":
		return runWeeks(ctx, cfg, rest, out)
	case "scores":
		return runScores(ctx, cfg, rest, out)
	case "import":
		return runImport(ctx, cfg, rest, out)
	case "hash-password":
		return runHashPassword(rest, out)
	case "token":
		return runToken(cfg, rest, out)
	case "help", "-h", "--help":
		fmt.Fprintln(out, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// sourceFlags registers --input, which switches the source to a CSV file.
func sourceFlags(fs *flag.FlagSet) *string {
	return fs.String("input", "", "Path to a habit log CSV (overrides data.source/data.path)")
}

func openSource(ctx context.Context, cfg *config.Config, input string) (*services.DashboardService, func() error, error) {
	if input != "" {
		cfg.Data.Source = config.SourceCSV
		cfg.Data.Path = input
	}
	repo, closeFn, err := repository.OpenTableRepository(ctx, cfg)
	if err != nil {
		return nil, closeFn, err
	}
	return services.NewDashboardService(repo, cfg.Data.AggregateMarkers), closeFn, nil
}

func runWeeks(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("weeks", flag.ContinueOnError)
	input := sourceFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	svc, closeFn, err := openSource(ctx, cfg, *input)
	defer closeFn()
	if err != nil {
		return err
	}

	weeks, err := svc.ListWeeks(ctx)
	if err != nil {
		return err
	}

	if len(weeks) == 0 {
		fmt.Fprintln(out, "No weeks found.")
		return nil
	}
	for _, w := range weeks {
		fmt.Fprintf(out, "%s | %s .. %s | %d records\n",
			w.Label, w.Start.Format(domain.DateLayout), w.End.Format(domain.DateLayout), w.Records)
	}
	return nil
}

func runScores(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("scores", flag.ContinueOnError)
	input := sourceFlags(fs)
	week := fs.String("week", "all", "Week ordinal or \"all\"")
	habit := fs.String("habit", "all", "Habit name or \"all\"")
	jsonOut := fs.Bool("json", false, "Print the score table as JSON")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	scope, err := domain.ParseScope(*week)
	if err != nil {
		return err
	}

	svc, closeFn, err := openSource(ctx, cfg, *input)
	defer closeFn()
	if err != nil {
		return err
	}

	table, err := svc.GetScoreTable(ctx, domain.ScoreQuery{Scope: scope, Habit: domain.ParseHabitSelector(*habit)})
	if err != nil {
		return err
	}

	if *jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}
	printScoreTable(out, table)
	return nil
}

func printScoreTable(out io.Writer, table *domain.ScoreTable) {
	fmt.Fprintf(out, "%s | habit: %s\n", table.Scope, table.Habit)
	fmt.Fprintln(out, strings.Repeat("=", 38))
	fmt.Fprintf(out, "Days: %d | Habits: %d | Max score: %d\n", table.DaysInScope, table.HabitsConsidered, table.MaxScore)
	fmt.Fprintln(out, strings.Repeat("-", 38))

	if len(table.Rows) == 0 {
		fmt.Fprintln(out, "No records in scope.")
		return
	}
	for _, row := range table.Rows {
		pct := "n/a"
		if row.SuccessPercentage != nil {
			pct = fmt.Sprintf("%.2f%%", *row.SuccessPercentage)
		}
		fmt.Fprintf(out, "%2d. %s | %d/%d | %s\n", row.Rank, row.Person, row.Score, table.MaxScore, pct)
	}
}

func runImport(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	input := fs.String("input", cfg.Data.Path, "Path to the habit log CSV")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *input == "" {
		return fmt.Errorf("%w: --input is required", errUsage)
	}

	table, err := repository.NewCSVTableRepository(*input, repository.LayoutFromConfig(cfg.Data)).Load(ctx)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := repository.ConnectPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewPostgresTableRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	start := time.Now()
	n, err := repo.Import(ctx, table)
	if err != nil {
		return err
	}
	log.Info("habit log imported", "input", *input, "records", n, "habits", len(table.Habits), "duration", time.Since(start).String())

	fmt.Fprintf(out, "Imported %d records (%d habits) from %s\n", n, len(table.Habits), *input)
	return nil
}

func runHashPassword(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	password := fs.String("password", "", "Viewer password to hash")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	hash, err := services.HashPassword(*password)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hash)
	return nil
}

func runToken(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	subject := fs.String("subject", services.ViewerSubject, "Token subject")
	ttl := fs.Duration("ttl", cfg.Auth.TokenTTL, "Token lifetime")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if !cfg.AuthEnabled() {
		return fmt.Errorf("%w: auth.jwt_secret is not set", config.ErrInvalidConfig)
	}

	token, err := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, *ttl).GenerateToken(*subject)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
