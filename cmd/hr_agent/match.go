package main

import (
	"context"
	"fmt"

	"github.com/jonathan/hr-agent/internal/config"
	"github.com/jonathan/hr-agent/internal/extraction"
	"github.com/jonathan/hr-agent/internal/matching"
	"github.com/jonathan/hr-agent/internal/observability"
	"github.com/jonathan/hr-agent/internal/profile"
	"github.com/jonathan/hr-agent/internal/ranking"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank all candidate profiles against a job email",
	Long:  `Extracts the job requirements from an email and prints every stored profile ranked by match score, without rendering any documents.`,
	RunE:  runMatch,
}

var (
	matchConfigPath string
	matchEmailFile  string
	matchEmailText  string
)

func init() {
	matchCmd.Flags().StringVar(&matchConfigPath, "config", "", "Path to config.json file")
	matchCmd.Flags().StringVarP(&matchEmailFile, "email", "e", "", "Path to email text file, or - for stdin (mutually exclusive with --text)")
	matchCmd.Flags().StringVar(&matchEmailText, "text", "", "Inline email text (mutually exclusive with --email)")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := config.Resolve(matchConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	emailText, err := readEmailText(matchEmailFile, matchEmailText)
	if err != nil {
		return err
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	store, err := profile.NewStore(cfg.ProfilesDir)
	if err != nil {
		return fmt.Errorf("failed to open profile store: %w", err)
	}

	job := extraction.NewExtractor(client).Extract(ctx, emailText)

	profiles, err := store.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	ranker := ranking.NewRanker(matching.NewScorer(client))
	ranked, err := ranker.Rank(ctx, job, profiles)
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintJobInfo(job)
	printer.PrintRanking(ranked)
	return nil
}
