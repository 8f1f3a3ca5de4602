package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/hr-agent/internal/config"
	"github.com/jonathan/hr-agent/internal/mailbox"
	"github.com/jonathan/hr-agent/internal/pipeline"
	"github.com/jonathan/hr-agent/internal/types"
	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process one recruiting email through the full pipeline",
	Long: `Runs the five pipeline stages on a single email: job extraction, profile selection, resume rendering, cover letter rendering, and reply composition.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runProcess,
}

var (
	processConfigPath  string
	processEmailFile   string
	processEmailText   string
	processUser        string
	processSender      string
	processSubject     string
	processAPIKey      string
	processDatabaseURL string
	processProfilesDir string
	processOutputsDir  string
	processNoPDF       bool
	processVerbose     bool
	processJSON        bool
	processSend        bool
	processTo          string
)

func init() {
	// Config file flag (processed first)
	processCmd.Flags().StringVar(&processConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	processCmd.Flags().StringVarP(&processEmailFile, "email", "e", "", "Path to email text file, or - for stdin (mutually exclusive with --text)")
	processCmd.Flags().StringVar(&processEmailText, "text", "", "Inline email text (mutually exclusive with --email)")
	processCmd.Flags().StringVarP(&processUser, "user", "u", "", "Candidate user id to prefer over automatic selection")
	processCmd.Flags().StringVar(&processSender, "sender", "", "Email sender address (used in the drafted reply)")
	processCmd.Flags().StringVar(&processSubject, "subject", "", "Original email subject")
	processCmd.Flags().StringVar(&processProfilesDir, "profiles-dir", "", "Directory holding candidate profile JSON files")
	processCmd.Flags().StringVar(&processOutputsDir, "outputs-dir", "", "Directory for rendered resumes and cover letters")
	processCmd.Flags().BoolVar(&processNoPDF, "no-pdf", false, "Skip PDF conversion and keep HTML documents only")
	processCmd.Flags().BoolVarP(&processVerbose, "verbose", "v", false, "Print stage details (job info, ranking, selected profile)")
	processCmd.Flags().BoolVar(&processJSON, "json", false, "Print the full run result as JSON")
	processCmd.Flags().BoolVar(&processSend, "send", false, "Send the drafted reply via Gmail (requires --to or --sender)")
	processCmd.Flags().StringVar(&processTo, "to", "", "Recipient for --send (defaults to --sender)")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	processCmd.Flags().StringVar(&processAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for the run ledger
	processCmd.Flags().StringVar(&processDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := config.Resolve(processConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyProcessOverrides(cmd, cfg)

	emailText, err := readEmailText(processEmailFile, processEmailText)
	if err != nil {
		return err
	}

	agent, err := newAgent(ctx, cfg)
	if err != nil {
		return err
	}

	result, runErr := agent.Run(ctx, types.Input{
		EmailText: emailText,
		UserID:    processUser,
		Sender:    processSender,
		Subject:   processSubject,
	})
	if runErr != nil {
		if result != nil && result.FailedStage != "" {
			_, _ = fmt.Fprintf(os.Stderr, "Pipeline failed at stage %q\n", result.FailedStage)
		}
		return runErr
	}

	if processJSON {
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Println(string(encoded))
		return nil
	}

	out := result.Context.Output
	fmt.Printf("\nSelected candidate: %s (%s)\n", out.SelectedUserID, out.SelectionMethod)
	if out.ResumePath != "" {
		fmt.Printf("Resume:             %s\n", out.ResumePath)
	}
	if out.CoverLetterPath != "" {
		fmt.Printf("Cover letter:       %s\n", out.CoverLetterPath)
	}
	fmt.Printf("\nSubject: %s\n\n%s\n", out.EmailSubject, out.EmailBody)

	if processSend {
		return sendReply(ctx, cfg, agent, result)
	}
	return nil
}

// sendReply mails the drafted reply with the rendered documents
// attached.
func sendReply(ctx context.Context, cfg *config.Config, agent *pipeline.Agent, result *pipeline.Result) error {
	c := result.Context
	to := processTo
	if to == "" {
		to = c.Input.Sender
	}
	if to == "" {
		return fmt.Errorf("--send requires --to or --sender")
	}

	gateway, err := mailbox.NewGateway(ctx, cfg.GmailCredentials, cfg.GmailToken)
	if err != nil {
		return fmt.Errorf("failed to connect to Gmail: %w", err)
	}

	out := c.Output
	var attachments []string
	if out.ResumePath != "" {
		attachments = append(attachments, out.ResumePath)
	}
	if out.CoverLetterPath != "" {
		attachments = append(attachments, out.CoverLetterPath)
	}

	messageID, err := gateway.Send(ctx, to, out.EmailSubject, out.EmailBody, attachments)
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	agent.RecordSend(ctx, result.RunID, to, messageID)
	fmt.Printf("Reply sent to %s (message id %s)\n", to, messageID)
	return nil
}

// applyProcessOverrides copies explicitly set flags over the resolved
// config. Only flags the user changed take priority.
func applyProcessOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = processAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = processDatabaseURL
	}
	if cmd.Flags().Changed("profiles-dir") {
		cfg.ProfilesDir = processProfilesDir
	}
	if cmd.Flags().Changed("outputs-dir") {
		cfg.OutputsDir = processOutputsDir
	}
	if cmd.Flags().Changed("no-pdf") {
		cfg.DisablePDF = processNoPDF
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = processVerbose
	}
}
