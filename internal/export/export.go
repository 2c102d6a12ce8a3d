package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rana718/schoolseed/internal/generator"
	"github.com/Rana718/schoolseed/internal/models"
	"github.com/Rana718/schoolseed/internal/seeder"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type Counts struct {
	Users      int `json:"users" yaml:"users"`
	Teachers   int `json:"teachers" yaml:"teachers"`
	Classes    int `json:"classes" yaml:"classes"`
	Students   int `json:"students" yaml:"students"`
	Courses    int `json:"courses" yaml:"courses"`
	Grades     int `json:"grades" yaml:"grades"`
	Attendance int `json:"attendance" yaml:"attendance"`
}

type Login struct {
	Role     models.Role `json:"role" yaml:"role"`
	Email    string      `json:"email" yaml:"email"`
	Password string      `json:"password" yaml:"password"`
}

// Manifest records what a seeding run wrote and how to log in afterwards.
type Manifest struct {
	RunID     string  `json:"run_id" yaml:"run_id"`
	Timestamp string  `json:"timestamp" yaml:"timestamp"`
	Seed      int64   `json:"seed" yaml:"seed"`
	Provider  string  `json:"provider" yaml:"provider"`
	Duration  string  `json:"duration" yaml:"duration"`
	Counts    Counts  `json:"counts" yaml:"counts"`
	Logins    []Login `json:"logins" yaml:"logins"`
}

// Logins lists the admin and the first teacher and student account.
func Logins(p generator.Passwords, teachers, students int) []Login {
	logins := []Login{{Role: models.RoleAdmin, Email: generator.AdminEmail, Password: p.Admin}}
	if teachers > 0 {
		logins = append(logins, Login{Role: models.RoleTeacher, Email: generator.TeacherEmail(1), Password: p.Teacher})
	}
	if students > 0 {
		logins = append(logins, Login{Role: models.RoleStudent, Email: generator.StudentEmail(1), Password: p.Student})
	}
	return logins
}

func NewManifest(s *seeder.Summary, provider string, logins []Login, at time.Time) Manifest {
	return Manifest{
		RunID:     uuid.NewString(),
		Timestamp: at.Format("2006-01-02 15:04:05"),
		Seed:      s.Seed,
		Provider:  provider,
		Duration:  s.Duration.Round(time.Millisecond).String(),
		Counts: Counts{
			Users:      s.Users,
			Teachers:   s.Teachers,
			Classes:    s.Classes,
			Students:   s.Students,
			Courses:    s.Courses,
			Grades:     s.Grades,
			Attendance: s.Attendance,
		},
		Logins: logins,
	}
}

// WriteManifest writes YAML for .yaml/.yml paths and JSON otherwise.
func WriteManifest(path string, m Manifest) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(m)
	default:
		data, err = json.MarshalIndent(m, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
