package seeder

import (
	"context"
	"time"

	"github.com/Rana718/schoolseed/internal/generator"
	"github.com/Rana718/schoolseed/internal/models"
)

// Counts are the requested sizes of a run.
type Counts struct {
	Students       int
	Teachers       int
	Grades         int // hard cap on grade records
	AttendanceDays int
}

type Options struct {
	Counts
	Seed         int64
	AcademicYear int
	Today        time.Time
	Credentials  generator.Credentials
}

// Store bulk-writes each entity type and hands back the identifiers the
// database assigned.
type Store interface {
	InsertUsers(ctx context.Context, users []models.User) (map[string]string, error)
	InsertTeachers(ctx context.Context, teachers []models.TeacherDraft, userIDs map[string]string) ([]string, error)
	InsertClasses(ctx context.Context, classes []models.Class) ([]string, error)
	InsertStudents(ctx context.Context, students []models.Student, userIDs map[string]string) ([]string, error)
	InsertCourses(ctx context.Context, courses []models.Course) ([]string, error)
	InsertGrades(ctx context.Context, grades []models.Grade) (int, error)
	InsertAttendance(ctx context.Context, records []models.Attendance) (int, error)
}

// Tx is a Store scoped to the transaction of one run.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type BeginFunc func(ctx context.Context) (Tx, error)

type Summary struct {
	Seed       int64
	Users      int
	Teachers   int
	Classes    int
	Students   int
	Courses    int
	Grades     int
	Attendance int
	Duration   time.Duration
}
