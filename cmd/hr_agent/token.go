package main

import (
	"context"
	"fmt"

	"github.com/jonathan/hr-agent/internal/config"
	"github.com/jonathan/hr-agent/internal/mailbox"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Authorize Gmail access",
	Long: `Runs the Gmail OAuth flow. Without --code it prints the authorization
URL to open in a browser; run again with --code to exchange the
authorization code and store the token file.`,
	RunE: runToken,
}

var (
	tokenConfigPath string
	tokenCode       string
)

func init() {
	tokenCmd.Flags().StringVar(&tokenConfigPath, "config", "", "Path to config.json file")
	tokenCmd.Flags().StringVar(&tokenCode, "code", "", "Authorization code from the consent screen")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(tokenConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if tokenCode == "" {
		url, err := mailbox.AuthURL(cfg.GmailCredentials)
		if err != nil {
			return fmt.Errorf("failed to build authorization URL: %w", err)
		}
		fmt.Println("Open this URL in a browser, grant access, then rerun with --code:")
		fmt.Println(url)
		return nil
	}

	if err := mailbox.ExchangeCode(context.Background(), cfg.GmailCredentials, cfg.GmailToken, tokenCode); err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	fmt.Printf("Token saved to %s\n", cfg.GmailToken)
	return nil
}
