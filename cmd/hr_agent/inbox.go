package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/hr-agent/internal/config"
	"github.com/jonathan/hr-agent/internal/db"
	"github.com/jonathan/hr-agent/internal/mailbox"
	"github.com/jonathan/hr-agent/internal/types"
	"github.com/spf13/cobra"
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Fetch recent recruiting emails from Gmail",
	Long: `Lists recent inbox messages matching the HR query. With --process each
message is run through the full pipeline, and with --send the drafted
reply is sent back to the original sender with the rendered documents
attached.`,
	RunE: runInbox,
}

var (
	inboxConfigPath string
	inboxQuery      string
	inboxMax        int64
	inboxUser       string
	inboxProcess    bool
	inboxSend       bool
)

func init() {
	inboxCmd.Flags().StringVar(&inboxConfigPath, "config", "", "Path to config.json file")
	inboxCmd.Flags().StringVarP(&inboxQuery, "query", "q", "", "Gmail search query (defaults to the built-in HR query)")
	inboxCmd.Flags().Int64Var(&inboxMax, "max", 5, "Maximum number of messages to fetch")
	inboxCmd.Flags().StringVarP(&inboxUser, "user", "u", "", "Candidate user id to prefer for every processed message")
	inboxCmd.Flags().BoolVar(&inboxProcess, "process", false, "Run each fetched message through the pipeline")
	inboxCmd.Flags().BoolVar(&inboxSend, "send", false, "Send the drafted reply back to the sender (implies --process)")
	rootCmd.AddCommand(inboxCmd)
}

func runInbox(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := config.Resolve(inboxConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	gateway, err := mailbox.NewGateway(ctx, cfg.GmailCredentials, cfg.GmailToken)
	if err != nil {
		return fmt.Errorf("failed to connect to Gmail: %w", err)
	}

	messages, err := gateway.FetchRecent(ctx, inboxQuery, inboxMax)
	if err != nil {
		return fmt.Errorf("failed to fetch messages: %w", err)
	}
	if len(messages) == 0 {
		fmt.Println("No matching messages found.")
		return nil
	}

	for i, msg := range messages {
		fmt.Printf("[%d] %s\n    From: %s\n    Date: %s\n", i+1, msg.Subject, msg.Sender, msg.Date)
	}

	if !inboxProcess && !inboxSend {
		return nil
	}

	agent, err := newAgent(ctx, cfg)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		fmt.Printf("\nProcessing %q from %s\n", msg.Subject, msg.Sender)

		result, runErr := agent.Run(ctx, types.Input{
			EmailText: msg.Body,
			UserID:    inboxUser,
			Sender:    msg.Sender,
			Subject:   msg.Subject,
		})
		if runErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to process message %s: %v\n", msg.ID, runErr)
			continue
		}

		if !inboxSend || result.Status != db.StatusCompleted {
			continue
		}

		out := result.Context.Output
		var attachments []string
		if out.ResumePath != "" {
			attachments = append(attachments, out.ResumePath)
		}
		if out.CoverLetterPath != "" {
			attachments = append(attachments, out.CoverLetterPath)
		}

		messageID, sendErr := gateway.Send(ctx, msg.Sender, out.EmailSubject, out.EmailBody, attachments)
		if sendErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to send reply to %s: %v\n", msg.Sender, sendErr)
			continue
		}
		agent.RecordSend(ctx, result.RunID, msg.Sender, messageID)
		fmt.Printf("Reply sent to %s (message id %s)\n", msg.Sender, messageID)
	}

	return nil
}
