package generator

import (
	"fmt"
	"time"

	"github.com/Rana718/schoolseed/internal/faker"
	"github.com/Rana718/schoolseed/internal/models"
)

var GradeLevels = []int{6, 7, 8, 9, 10, 11, 12}

var Departments = []string{
	"Math Dept", "Physics Dept", "Chemistry Dept", "Literature Dept", "English Dept", "Social Studies Dept",
}

const (
	MinSectionsPerGrade = 3
	MaxSectionsPerGrade = 4
	ClassCapacity       = 40
)

// GenerateClasses returns 3 or 4 sections for every grade level.
func GenerateClasses(f *faker.Faker, academicYear int) []models.ClassDraft {
	var classes []models.ClassDraft
	for _, grade := range GradeLevels {
		sections := f.IntBetween(MinSectionsPerGrade, MaxSectionsPerGrade)
		for section := 1; section <= sections; section++ {
			classes = append(classes, models.ClassDraft{
				Name:         fmt.Sprintf("%dA%d", grade, section),
				GradeLevel:   grade,
				AcademicYear: academicYear,
				RoomNumber:   fmt.Sprintf("%d%02d", grade, section),
				MaxStudents:  ClassCapacity,
			})
		}
	}
	return classes
}

// GenerateTeachers builds one profile per teacher account.
func GenerateTeachers(f *faker.Faker, users []models.User, today time.Time) []models.TeacherDraft {
	teachers := make([]models.TeacherDraft, len(users))
	for i, u := range users {
		teachers[i] = models.TeacherDraft{
			UserEmail:  u.Email,
			FirstName:  f.FirstName(),
			LastName:   f.LastName(),
			Department: faker.Pick(f, Departments),
			Phone:      f.Phone(),
			HireDate:   f.DateBetween(today.AddDate(-10, 0, 0), today),
		}
	}
	return teachers
}

// GenerateStudents builds one profile per student account. Optional contact
// fields are left nil for a share of the students.
func GenerateStudents(f *faker.Faker, users []models.User, today time.Time) []models.StudentDraft {
	students := make([]models.StudentDraft, len(users))
	for i, u := range users {
		s := models.StudentDraft{
			UserEmail: u.Email,
			FirstName: f.FirstName(),
			LastName:  f.LastName(),
		}
		s.DateOfBirth = f.DateOfBirth(f.IntBetween(10, 18), today)
		s.Gender = faker.Pick(f, []string{"M", "F"})
		if f.Chance(0.7) {
			s.Phone = ptr(f.Phone())
		}
		if f.Chance(0.8) {
			s.Address = ptr(f.Address())
		}
		s.ParentName = f.Name()
		s.ParentPhone = f.Phone()
		if f.Chance(0.7) {
			s.ParentEmail = ptr(f.Email())
		}
		students[i] = s
	}
	return students
}

func ptr[T any](v T) *T {
	return &v
}
