package cmd

import (
	"fmt"
	"strings"

	"github.com/Rana718/schoolseed/internal/database"
	"github.com/Rana718/schoolseed/internal/schema"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the school-management tables",
}

var schemaPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the DDL for the selected provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dialect, err := database.NewDialect(cfg.Database.Provider)
		if err != nil {
			return err
		}
		stmts, err := schema.CreateStatements(dialect)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(stmts, ";\n\n")+";")
		return nil
	},
}

var schemaCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the tables if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return applySchema(cmd, schema.CreateStatements, "created")
	},
}

var schemaDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the tables and all their data",
	Long: `
Drop every table created by 'schoolseed schema create', children first.

⚠️  WARNING: This permanently deletes all data in those tables!

Requires --force.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("refusing to drop tables without --force")
		}
		return applySchema(cmd, schema.DropStatements, "dropped")
	},
}

func applySchema(cmd *cobra.Command, build func(database.Dialect) ([]string, error), verb string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dialect, err := database.NewDialect(cfg.Database.Provider)
	if err != nil {
		return err
	}
	dsn, err := cfg.GetDatabaseURL()
	if err != nil {
		return err
	}
	stmts, err := build(dialect)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := database.Open(ctx, dialect, dsn)
	if err != nil {
		color.Red("❌ Failed to connect to %s: %s", dialect.Name, database.Describe(err))
		return err
	}
	defer db.Close()

	if err := schema.Apply(ctx, db, stmts); err != nil {
		color.Red("❌ %s", database.Describe(err))
		return err
	}
	color.Green("✅ %d tables %s", len(stmts), verb)
	return nil
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaPrintCmd, schemaCreateCmd, schemaDropCmd)
	schemaDropCmd.Flags().BoolP("force", "f", false, "Drop without further confirmation")
}
