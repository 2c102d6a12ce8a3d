package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rana718/schoolseed/internal/config"
	"github.com/Rana718/schoolseed/internal/database"
	"github.com/Rana718/schoolseed/internal/export"
	"github.com/Rana718/schoolseed/internal/generator"
	"github.com/Rana718/schoolseed/internal/loader"
	"github.com/Rana718/schoolseed/internal/schema"
	"github.com/Rana718/schoolseed/internal/seeder"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with synthetic school data",
	Long: `
Generate users, teachers, classes, students, courses, grades and attendance
and insert them in a single transaction. Any failure rolls back every write
of the run, leaving the schema as it was.

The target tables must exist (see 'schoolseed schema create') and should be
empty: re-seeding a populated database fails on unique emails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runSeed(cmd.Context(), cfg)
	},
}

func runSeed(ctx context.Context, cfg *config.Config) error {
	dialect, err := database.NewDialect(cfg.Database.Provider)
	if err != nil {
		return err
	}
	dsn, err := cfg.GetDatabaseURL()
	if err != nil {
		return err
	}

	passwords := generator.Passwords{
		Admin:   cfg.Seed.Passwords.Admin,
		Teacher: cfg.Seed.Passwords.Teacher,
		Student: cfg.Seed.Passwords.Student,
	}
	color.Cyan("🔐 Hashing default passwords (bcrypt cost %d)...", cfg.Seed.BcryptCost)
	creds, err := generator.HashPasswords(passwords, cfg.Seed.BcryptCost)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, dialect, dsn)
	if err != nil {
		color.Red("❌ Failed to connect to %s: %s", dialect.Name, database.Describe(err))
		return err
	}
	defer db.Close()

	missing, err := schema.Missing(ctx, db, dialect)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		color.Red("❌ Missing tables: %s", strings.Join(missing, ", "))
		color.Yellow("💡 Tip: create them with 'schoolseed schema create'")
		return fmt.Errorf("schema is incomplete: %d tables missing", len(missing))
	}

	s := seeder.New(seeder.Options{
		Counts: seeder.Counts{
			Students:       cfg.Seed.Students,
			Teachers:       cfg.Seed.Teachers,
			Grades:         cfg.Seed.Grades,
			AttendanceDays: cfg.Seed.Days,
		},
		Seed:         cfg.Seed.RandomSeed,
		AcademicYear: cfg.Seed.AcademicYear,
		Today:        time.Now().UTC(),
		Credentials:  creds,
	}, seeder.ConsoleReporter{})

	summary, err := s.Run(ctx, func(ctx context.Context) (seeder.Tx, error) {
		tx, err := loader.Begin(ctx, db, dialect, cfg.Seed.BatchSize)
		if err != nil {
			return nil, err
		}
		return tx, nil
	})
	if err != nil {
		reportFailure(err)
		return err
	}

	logins := export.Logins(passwords, summary.Teachers, summary.Students)
	printSummary(summary, logins)

	if cfg.Output != "" {
		m := export.NewManifest(summary, dialect.Name, logins, time.Now())
		if err := export.WriteManifest(cfg.Output, m); err != nil {
			return err
		}
		color.Green("📄 Manifest written to %s", cfg.Output)
	}
	return nil
}

func reportFailure(err error) {
	var ce *loader.ConsistencyError
	if errors.As(err, &ce) {
		color.Red("❌ Data consistency error: %v", ce)
		fmt.Print(ce.Details())
		return
	}
	if database.IsConstraintViolation(err) {
		color.Red("❌ Constraint violation: %s", database.Describe(err))
		color.Yellow("💡 Tip: seeding expects empty tables")
		return
	}
	color.Red("❌ Seeding failed: %s", database.Describe(err))
}

func printSummary(s *seeder.Summary, logins []export.Login) {
	color.Green("\n✅ Database seeding completed successfully in %s", s.Duration.Round(time.Millisecond))
	fmt.Println()
	rows := []struct {
		name  string
		count int
	}{
		{"Users", s.Users},
		{"Teachers", s.Teachers},
		{"Classes", s.Classes},
		{"Students", s.Students},
		{"Courses", s.Courses},
		{"Grades", s.Grades},
		{"Attendance", s.Attendance},
	}
	for _, r := range rows {
		fmt.Printf("  %-12s %d\n", r.name, r.count)
	}

	fmt.Println()
	color.Cyan("🔑 Default logins:")
	for _, l := range logins {
		fmt.Printf("  %-8s %-28s %s\n", l.Role, l.Email, l.Password)
	}
}

func init() {
	rootCmd.AddCommand(seedCmd)

	flags := seedCmd.Flags()
	flags.Int("students", 100, "Number of students")
	flags.Int("teachers", 20, "Number of teachers")
	flags.Int("grades", 2000, "Maximum number of grade records")
	flags.Int("days", 90, "Attendance window in days, ending today")
	flags.Int64("seed", 42, "Random seed")
	flags.Int("batch-size", 50, "Rows per INSERT statement")
	flags.Int("academic-year", 2024, "Academic year of classes and courses")
	flags.Int("bcrypt-cost", 10, "bcrypt cost for the default passwords")
	flags.String("output", "", "Write a run manifest to this file (.json, .yaml or .yml)")

	bindFlags(flags, map[string]string{
		"seed.students":      "students",
		"seed.teachers":      "teachers",
		"seed.grades":        "grades",
		"seed.days":          "days",
		"seed.random_seed":   "seed",
		"seed.batch_size":    "batch-size",
		"seed.academic_year": "academic-year",
		"seed.bcrypt_cost":   "bcrypt-cost",
		"output":             "output",
	})
}
