package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/Rana718/schoolseed/internal/faker"
	"github.com/Rana718/schoolseed/internal/generator"
	"github.com/Rana718/schoolseed/internal/loader"
	"github.com/Rana718/schoolseed/internal/models"
)

type Seeder struct {
	opts     Options
	reporter Reporter
}

// New returns a Seeder. A nil reporter discards progress.
func New(opts Options, reporter Reporter) *Seeder {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if opts.Today.IsZero() {
		opts.Today = time.Now().UTC()
	}
	return &Seeder{opts: opts, reporter: reporter}
}

// Run generates the whole dataset and loads it inside one transaction.
// Any failure rolls back every write of the run.
func (s *Seeder) Run(ctx context.Context, begin BeginFunc) (*Summary, error) {
	started := time.Now()
	f := faker.New(s.opts.Seed)
	today := s.opts.Today

	identities := generator.GenerateIdentities(s.opts.Teachers, s.opts.Students, s.opts.Credentials)
	users := identities.All()
	teachers := generator.GenerateTeachers(f, identities.Teachers, today)
	classDrafts := generator.GenerateClasses(f, s.opts.AcademicYear)
	studentDrafts := generator.GenerateStudents(f, identities.Students, today)

	tx, err := begin(ctx)
	if err != nil {
		return nil, err
	}
	s.reporter.Start(s.opts.Seed)

	summary, err := s.load(ctx, tx, f, users, teachers, classDrafts, studentDrafts)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return nil, fmt.Errorf("seed failed and rollback failed: %v (original: %w)", rbErr, err)
		}
		s.reporter.RolledBack(err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.reporter.Committed()

	summary.Seed = s.opts.Seed
	summary.Duration = time.Since(started)
	return summary, nil
}

func (s *Seeder) load(
	ctx context.Context,
	tx Tx,
	f *faker.Faker,
	users []models.User,
	teacherDrafts []models.TeacherDraft,
	classDrafts []models.ClassDraft,
	studentDrafts []models.StudentDraft,
) (*Summary, error) {
	today := s.opts.Today

	s.reporter.Stage("users", len(users))
	userIDs, err := tx.InsertUsers(ctx, users)
	if err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	if err := loader.CheckUserMapping(users, userIDs); err != nil {
		return nil, err
	}
	s.reporter.Done("users", len(userIDs))

	s.reporter.Stage("teachers", len(teacherDrafts))
	teacherIDs, err := tx.InsertTeachers(ctx, teacherDrafts, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to seed teachers: %w", err)
	}
	if err := checkCount("teachers", len(teacherDrafts), len(teacherIDs)); err != nil {
		return nil, err
	}
	s.reporter.Done("teachers", len(teacherIDs))

	classes, err := loader.AssignTeachers(f, classDrafts, teacherIDs)
	if err != nil {
		return nil, err
	}
	s.reporter.Stage("classes", len(classes))
	classIDs, err := tx.InsertClasses(ctx, classes)
	if err != nil {
		return nil, fmt.Errorf("failed to seed classes: %w", err)
	}
	if err := checkCount("classes", len(classes), len(classIDs)); err != nil {
		return nil, err
	}
	s.reporter.Done("classes", len(classIDs))

	students, err := loader.PartitionStudents(f, studentDrafts, classIDs)
	if err != nil {
		return nil, err
	}
	s.reporter.Stage("students", len(students))
	studentIDs, err := tx.InsertStudents(ctx, students, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to seed students: %w", err)
	}
	if err := checkCount("students", len(students), len(studentIDs)); err != nil {
		return nil, err
	}
	s.reporter.Done("students", len(studentIDs))

	courses, err := generator.GenerateCourses(f, classIDs, teacherIDs, s.opts.AcademicYear)
	if err != nil {
		return nil, fmt.Errorf("failed to generate courses: %w", err)
	}
	s.reporter.Stage("courses", len(courses))
	courseIDs, err := tx.InsertCourses(ctx, courses)
	if err != nil {
		return nil, fmt.Errorf("failed to seed courses: %w", err)
	}
	if err := checkCount("courses", len(courses), len(courseIDs)); err != nil {
		return nil, err
	}
	s.reporter.Done("courses", len(courseIDs))

	grades := generator.GenerateGrades(f, studentIDs, courseIDs, s.opts.Grades, today)
	s.reporter.Stage("grades", len(grades))
	gradeRows, err := tx.InsertGrades(ctx, grades)
	if err != nil {
		return nil, fmt.Errorf("failed to seed grades: %w", err)
	}
	if err := checkCount("grades", len(grades), gradeRows); err != nil {
		return nil, err
	}
	s.reporter.Done("grades", gradeRows)

	attendance := generator.GenerateAttendance(f, studentIDs, s.opts.AttendanceDays, today)
	s.reporter.Stage("attendance", len(attendance))
	attendanceRows, err := tx.InsertAttendance(ctx, attendance)
	if err != nil {
		return nil, fmt.Errorf("failed to seed attendance: %w", err)
	}
	if err := checkCount("attendance", len(attendance), attendanceRows); err != nil {
		return nil, err
	}
	s.reporter.Done("attendance", attendanceRows)

	return &Summary{
		Users:      len(userIDs),
		Teachers:   len(teacherIDs),
		Classes:    len(classIDs),
		Students:   len(studentIDs),
		Courses:    len(courseIDs),
		Grades:     gradeRows,
		Attendance: attendanceRows,
	}, nil
}

func checkCount(stage string, submitted, returned int) error {
	if submitted != returned {
		return &loader.ConsistencyError{Stage: stage, Submitted: submitted, Returned: returned}
	}
	return nil
}
