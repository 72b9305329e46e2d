package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/arnavshah/night-scheduler-api/pkg/auth"
	"github.com/arnavshah/night-scheduler-api/pkg/database"
	"github.com/arnavshah/night-scheduler-api/pkg/models"
	"github.com/arnavshah/night-scheduler-api/pkg/scheduler"
)

// generateResult is what generate prints.
type generateResult struct {
	Month           string          `yaml:"month"`
	Seed            int64           `yaml:"seed"`
	Schedule        models.Schedule `yaml:"schedule"`
	UnassignedDates []string        `yaml:"unassigned_dates"`
	ShiftTotals     map[uint]int    `yaml:"shift_totals"`
	FairnessScore   float64         `yaml:"fairness_score"`
	Violations      []string        `yaml:"violations,omitempty"`
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a month's schedule from a preferences file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, _ := cmd.Flags().GetString("month")
			prefsPath, _ := cmd.Flags().GetString("preferences")
			existingPath, _ := cmd.Flags().GetString("existing")

			seed := time.Now().UnixNano()
			if cmd.Flags().Changed("seed") {
				seed, _ = cmd.Flags().GetInt64("seed")
			}

			prefs, err := loadPreferences(prefsPath)
			if err != nil {
				return err
			}
			existing := models.Schedule{}
			if existingPath != "" {
				if existing, err = loadSchedule(existingPath); err != nil {
					return err
				}
			}

			app.logger.Info("generate command",
				zap.String("month", month),
				zap.Int("doctors", len(prefs)),
				zap.Int("existing", len(existing)),
				zap.Int64("seed", seed))

			return runGenerate(cmd.OutOrStdout(), month, seed, prefs, existing)
		},
	}

	cmd.Flags().String("month", "", "Month to schedule (YYYY-MM)")
	cmd.Flags().String("preferences", "", "YAML file with the doctors' preferences")
	cmd.Flags().String("existing", "", "YAML file with nights already assigned (date: doctor_id)")
	cmd.Flags().Int64("seed", 0, "Seed for tie-breaking (random when omitted)")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("preferences")

	return cmd
}

func runGenerate(w io.Writer, month string, seed int64, prefs []models.Preference, existing models.Schedule) error {
	gen := scheduler.NewGenerator(seed)
	schedule, err := gen.Generate(month, prefs, existing)
	if err != nil {
		return err
	}
	summary, err := scheduler.Summarize(month, schedule, prefs)
	if err != nil {
		return err
	}
	_, violations := scheduler.Validate(schedule, prefs)

	return writeYAML(w, generateResult{
		Month:           month,
		Seed:            gen.Seed(),
		Schedule:        schedule,
		UnassignedDates: summary.UnassignedDates,
		ShiftTotals:     summary.ShiftTotals,
		FairnessScore:   summary.FairnessScore,
		Violations:      violations,
	})
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a schedule against the doctors' unavailability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schedulePath, _ := cmd.Flags().GetString("schedule")
			prefsPath, _ := cmd.Flags().GetString("preferences")

			schedule, err := loadSchedule(schedulePath)
			if err != nil {
				return err
			}
			prefs, err := loadPreferences(prefsPath)
			if err != nil {
				return err
			}

			return runValidate(cmd.OutOrStdout(), schedule, prefs)
		},
	}

	cmd.Flags().String("schedule", "", "YAML file with the schedule (date: doctor_id)")
	cmd.Flags().String("preferences", "", "YAML file with the doctors' preferences")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagRequired("preferences")

	return cmd
}

// runValidate prints the verdict and returns errInvalidSchedule when there
// are violations.
func runValidate(w io.Writer, schedule models.Schedule, prefs []models.Preference) error {
	valid, violations := scheduler.Validate(schedule, prefs)
	if valid {
		fmt.Fprintf(w, "Schedule is valid (%d nights checked)\n", len(schedule))
		return nil
	}

	fmt.Fprintf(w, "Schedule has %d violation(s):\n", len(violations))
	for _, v := range violations {
		fmt.Fprintf(w, "  - %s\n", v)
	}
	return errInvalidSchedule
}

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <user_id>",
		Short: "Print an HMAC-signed API key for a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.Auth.MasterSecret == "" {
				app.logger.Warn("API_MASTER_SECRET is empty, the key will not match a configured server")
			}
			key := auth.NewService(app.cfg.Auth).GenerateHMACKey(args[0])

			fmt.Fprintf(cmd.OutOrStdout(), "Generated API Key for '%s':\n%s\n", args[0], key)
			return nil
		},
	}
}

func seedDoctorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-doctors",
		Short: "Insert the doctors of a roster file that are not stored yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			roster, err := loadRoster(path)
			if err != nil {
				return err
			}

			db, err := database.InitDB(app.cfg.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			created, err := database.SeedDoctors(db, roster)
			if err != nil {
				return err
			}
			app.logger.Info("doctors seeded", zap.Int("created", created), zap.Int("roster", len(roster)))

			fmt.Fprintf(cmd.OutOrStdout(), "Added %d of %d doctors\n", created, len(roster))
			return nil
		},
	}

	cmd.Flags().String("file", "", "YAML roster file (list of name/initials)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// decodeFile reads a YAML file into out.
func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
