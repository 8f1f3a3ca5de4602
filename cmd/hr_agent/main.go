// Package main provides the entry point for the HR inbox agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hr_agent",
	Short: "HR Inbox Agent",
	Long:  "HR Inbox Agent reads recruiting emails, extracts the job requirements, picks the best matching candidate profile, renders a tailored resume and cover letter, and drafts the reply email.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
