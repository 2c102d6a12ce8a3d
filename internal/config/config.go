package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

const EnvPrefix = "SCHOOLSEED"

type Config struct {
	Database Database `json:"database" mapstructure:"database"`
	Seed     Seed     `json:"seed" mapstructure:"seed"`
	Output   string   `json:"output" mapstructure:"output"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider" validate:"required,oneof=postgres postgresql pq mysql sqlite sqlite3"`
	Host     string `json:"host" mapstructure:"host"`
	Port     int    `json:"port" mapstructure:"port" validate:"min=1,max=65535"`
	Name     string `json:"name" mapstructure:"name" validate:"required_without=URL"`
	User     string `json:"user" mapstructure:"user"`
	Password string `json:"password" mapstructure:"password"`
	URL      string `json:"url" mapstructure:"url"` // overrides the discrete fields
}

type Seed struct {
	Students     int       `json:"students" mapstructure:"students" validate:"min=0"`
	Teachers     int       `json:"teachers" mapstructure:"teachers" validate:"min=1"`
	Grades       int       `json:"grades" mapstructure:"grades" validate:"min=0"`
	Days         int       `json:"days" mapstructure:"days" validate:"min=0,max=3650"`
	RandomSeed   int64     `json:"random_seed" mapstructure:"random_seed"`
	BatchSize    int       `json:"batch_size" mapstructure:"batch_size" validate:"min=1,max=1000"`
	AcademicYear int       `json:"academic_year" mapstructure:"academic_year" validate:"min=1900,max=2100"`
	BcryptCost   int       `json:"bcrypt_cost" mapstructure:"bcrypt_cost" validate:"min=4,max=31"`
	Passwords    Passwords `json:"passwords" mapstructure:"passwords"`
}

// Passwords are hashed with bcrypt, which only reads the first 72 bytes.
type Passwords struct {
	Admin   string `json:"admin" mapstructure:"admin" validate:"required,max=72"`
	Teacher string `json:"teacher" mapstructure:"teacher" validate:"required,max=72"`
	Student string `json:"student" mapstructure:"student" validate:"required,max=72"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.provider", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "school_dashboard")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.url", "")

	v.SetDefault("seed.students", 100)
	v.SetDefault("seed.teachers", 20)
	v.SetDefault("seed.grades", 2000)
	v.SetDefault("seed.days", 90)
	v.SetDefault("seed.random_seed", 42)
	v.SetDefault("seed.batch_size", 50)
	v.SetDefault("seed.academic_year", 2024)
	v.SetDefault("seed.bcrypt_cost", 10)
	v.SetDefault("seed.passwords.admin", "Admin@123")
	v.SetDefault("seed.passwords.teacher", "Teacher@123")
	v.SetDefault("seed.passwords.student", "Student@123")

	v.SetDefault("output", "")
}

// Configure installs defaults and environment lookup: SCHOOLSEED_SEED_STUDENTS
// for seed.students and so on. DATABASE_URL is honored for database.url.
func Configure(v *viper.Viper) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
}

func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Database.Provider = strings.ToLower(cfg.Database.Provider)
	return &cfg, nil
}

func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fieldKey(fe.Namespace()), fieldTag(fe)))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// fieldKey turns Config.Seed.BatchSize into Seed.BatchSize.
func fieldKey(ns string) string {
	return strings.TrimPrefix(ns, "Config.")
}

func fieldTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// IsSQLite reports whether the provider stores data in a local file.
func (c *Config) IsSQLite() bool {
	return c.Database.Provider == "sqlite" || c.Database.Provider == "sqlite3"
}

func (c *Config) GetDatabaseURL() (string, error) {
	if c.Database.URL != "" {
		return c.Database.URL, nil
	}

	db := c.Database
	switch db.Provider {
	case "postgres", "postgresql", "pq":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(db.User, db.Password),
			Host:     net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
			Path:     "/" + db.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String(), nil
	case "mysql":
		cfg := mysql.NewConfig()
		cfg.User = db.User
		cfg.Passwd = db.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
		cfg.DBName = db.Name
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case "sqlite", "sqlite3":
		path := db.Name
		if filepath.Ext(path) == "" {
			path += ".db"
		}
		return "file:" + path + "?_foreign_keys=on", nil
	default:
		return "", fmt.Errorf("unsupported database provider: %s", db.Provider)
	}
}
