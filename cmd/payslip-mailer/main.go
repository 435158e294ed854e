package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/payroll-tools/payslip-mailer/internal/common"
	"github.com/payroll-tools/payslip-mailer/internal/dispatch"
	"github.com/payroll-tools/payslip-mailer/internal/entity"
	"github.com/payroll-tools/payslip-mailer/internal/extract"
	"github.com/payroll-tools/payslip-mailer/internal/pipeline"
	"github.com/payroll-tools/payslip-mailer/internal/report"
	"github.com/payroll-tools/payslip-mailer/internal/repository"
	"github.com/payroll-tools/payslip-mailer/internal/roster"
	"github.com/payroll-tools/payslip-mailer/internal/split"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		from      = flag.String("from", "", "sender email address (required)")
		payslips  = flag.String("payslips", "", "multi-page payslip PDF (required)")
		rosterArg = flag.String("roster", "", "employee roster workbook, XLSX (required)")
		subject   = flag.String("subject", "", "email subject line (required)")
		month     = flag.String("month", "", "month label for the staging area (required)")
		year      = flag.String("year", "", "year label for the staging area (required)")
		reportOut = flag.String("report", "", "output XLSX report path (optional)")
	)
	flag.Parse()

	for name, v := range map[string]*string{
		"from": from, "payslips": payslips, "roster": rosterArg,
		"subject": subject, "month": month, "year": year,
	} {
		if *v == "" {
			printError("Error: --%s is required\n", name)
			os.Exit(1)
		}
	}

	// .env is optional; the password must come from the environment, not a flag.
	_ = godotenv.Load()
	secret := os.Getenv("SMTP_PASSWORD")
	if secret == "" {
		printError("Error: SMTP_PASSWORD environment variable is required\n")
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		printError("Error: logger init: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	ctx := context.Background()

	auditStore, err := repository.NewAuditStore(cfg.Audit.DBPath, logger)
	if err != nil {
		logger.Error("audit store init failed", zap.Error(err))
		os.Exit(1)
	}
	defer auditStore.Close()

	failureLog, err := dispatch.OpenFailureLog(cfg.Audit.FailureLogPath)
	if err != nil {
		logger.Error("failure log init failed", zap.Error(err))
		os.Exit(1)
	}
	defer failureLog.Close()

	dispatcher := dispatch.NewDispatcher(
		dispatch.NewSMTPSender(cfg.SMTP),
		dispatch.NewThrottle(cfg.Dispatch),
		failureLog,
		auditStore,
		cfg.Dispatch,
		logger,
	)

	orch := &pipeline.Orchestrator{
		LoadRoster: func(path string) (pipeline.RosterLookup, error) {
			return roster.Load(path, cfg.Roster)
		},
		Splitter:   split.NewSplitter(cfg.Staging.Root, logger),
		Extractor:  extract.NewFitzExtractor(logger),
		Matcher:    extract.NewMatcher(),
		Dispatcher: dispatcher,
		Audit:      auditStore,
		Logger:     logger,
	}

	result, err := orch.Run(ctx, pipeline.RunRequest{
		Credentials: entity.Credentials{Address: *from, Secret: secret},
		SourcePath:  *payslips,
		RosterPath:  *rosterArg,
		Subject:     *subject,
		Month:       *month,
		Year:        *year,
	})
	if err != nil && !errors.Is(err, common.ErrAuthFailed) {
		logger.Error("run failed", zap.Error(err))
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if errors.Is(err, common.ErrAuthFailed) {
		// Partial result: the table is still worth showing with zero sent.
		printError("Warning: %v\n", err)
	}

	fmt.Printf("Out of %d payslips, %d emails were sent successfully!\n",
		result.TotalPages, result.EmailsSent)
	printTable(result)

	if *reportOut != "" {
		if err := report.Write(result, *reportOut); err != nil {
			logger.Error("report write failed", zap.Error(err))
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", *reportOut)
	}
}

func printTable(result entity.RunResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Employee ID\tEmployee Name\tEmail Address\tAttachment\tStatus")
	for _, r := range result.Records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Code, r.Name, r.Email, r.AttachmentPath, r.Status)
	}
	w.Flush()
	for _, u := range result.Unmatched {
		fmt.Printf("Page %d skipped: %s %s\n", u.Index, u.Reason, u.Code)
	}
}
