package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rana718/schoolseed/internal/config"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.3.0"
)

var rootCmd = &cobra.Command{
	Use:   "schoolseed",
	Short: "Seed a school-management database with synthetic data",
	Long: `
schoolseed fills an empty school-management schema with synthetic but
referentially consistent data: users, teachers, classes, students,
courses, grades and attendance.

Database Support:
- PostgreSQL (pgx or lib/pq)
- MySQL
- SQLite`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("schoolseed version %s\n", Version)
			return
		}
		cmd.Help()
	},
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./schoolseed.yaml)")
	flags.String("provider", "postgres", "database provider: postgres, pq, mysql or sqlite")
	flags.String("host", "localhost", "database host")
	flags.Int("port", 5432, "database port")
	flags.String("dbname", "school_dashboard", "database name (file name for sqlite)")
	flags.String("user", "postgres", "database user")
	flags.String("password", "postgres", "database password")
	flags.String("dsn", "", "connection string, overrides the discrete connection flags (env DATABASE_URL)")

	bindFlags(flags, map[string]string{
		"database.provider": "provider",
		"database.host":     "host",
		"database.port":     "port",
		"database.name":     "dbname",
		"database.user":     "user",
		"database.password": "password",
		"database.url":      "dsn",
	})

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("schoolseed")
	}

	config.Configure(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			color.Yellow("⚠️  Could not read config file: %v", err)
		}
	}
}

// loadConfig reads and validates the merged flag, env and file settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
