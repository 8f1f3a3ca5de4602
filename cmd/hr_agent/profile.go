package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/hr-agent/internal/config"
	"github.com/jonathan/hr-agent/internal/profile"
	"github.com/jonathan/hr-agent/internal/types"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect and edit stored candidate profiles",
}

var profileConfigPath string

func init() {
	profileCmd.PersistentFlags().StringVar(&profileConfigPath, "config", "", "Path to config.json file")
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileStatsCmd)
	profileCmd.AddCommand(profileSearchCmd)
	profileCmd.AddCommand(profileAddSkillCmd)
	profileCmd.AddCommand(profileAddExperienceCmd)
	profileCmd.AddCommand(profileAddEducationCmd)
	profileCmd.AddCommand(profileValidateCmd)
	rootCmd.AddCommand(profileCmd)
}

// profileStore resolves configuration and opens the profile store.
func profileStore() (*profile.Store, error) {
	cfg, err := config.Resolve(profileConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	store, err := profile.NewStore(cfg.ProfilesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store: %w", err)
	}
	return store, nil
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored profiles",
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := profileStore()
		if err != nil {
			return err
		}
		profiles, err := store.ListAll()
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Println("No profiles stored.")
			return nil
		}
		for _, p := range profiles {
			fmt.Printf("%-20s %-24s %d skills\n", p.UserID, p.Name, len(p.Skills))
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Print one profile as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := profileStore()
		if err != nil {
			return err
		}
		p, err := store.Load(args[0])
		if err != nil {
			return err
		}
		encoded, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	},
}

var profileStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate statistics over all profiles",
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := profileStore()
		if err != nil {
			return err
		}
		stats, err := store.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("Profiles:        %d\n", stats.TotalProfiles)
		fmt.Printf("With skills:     %d\n", stats.WithSkills)
		fmt.Printf("With experience: %d\n", stats.WithExperience)
		fmt.Printf("With education:  %d\n", stats.WithEducation)
		fmt.Printf("Avg skills:      %.1f\n", stats.AvgSkillsPerProfile)
		if len(stats.TopSkills) > 0 {
			fmt.Println("Top skills:")
			for _, sc := range stats.TopSkills {
				fmt.Printf("  %-24s %d\n", sc.Skill, sc.Count)
			}
		}
		return nil
	},
}

var profileSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search profiles by name, skill, or free text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := profileStore()
		if err != nil {
			return err
		}
		matches, err := store.Search(strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("No matching profiles.")
			return nil
		}
		for _, p := range matches {
			fmt.Printf("%-20s %s\n", p.UserID, p.Name)
		}
		return nil
	},
}

var profileAddSkillCmd = &cobra.Command{
	Use:   "add-skill <user-id> <skill>",
	Short: "Append a skill to a profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := profileStore()
		if err != nil {
			return err
		}
		if err := store.AddSkill(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Added skill %q to %s\n", args[1], args[0])
		return nil
	},
}

var profileAddExperienceCmd = &cobra.Command{
	Use:   "add-experience <user-id> <text>",
	Short: "Append an experience entry to a profile",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := profileStore()
		if err != nil {
			return err
		}
		text := strings.Join(args[1:], " ")
		if err := store.AddExperience(args[0], types.StringEntry(text)); err != nil {
			return err
		}
		fmt.Printf("Added experience entry to %s\n", args[0])
		return nil
	},
}

var profileAddEducationCmd = &cobra.Command{
	Use:   "add-education <user-id> <text>",
	Short: "Append an education entry to a profile",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := profileStore()
		if err != nil {
			return err
		}
		text := strings.Join(args[1:], " ")
		if err := store.AddEducation(args[0], types.StringEntry(text)); err != nil {
			return err
		}
		fmt.Printf("Added education entry to %s\n", args[0])
		return nil
	},
}

var profileValidateCmd = &cobra.Command{
	Use:   "validate <user-id>",
	Short: "Check a profile for missing or malformed fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := profileStore()
		if err != nil {
			return err
		}
		p, err := store.Load(args[0])
		if err != nil {
			return err
		}
		issues := store.Validate(p)
		if len(issues) == 0 {
			fmt.Printf("Profile %s is valid.\n", args[0])
			return nil
		}
		for _, issue := range issues {
			fmt.Printf("- %s\n", issue)
		}
		return fmt.Errorf("profile %s has %d issue(s)", args[0], len(issues))
	},
}
