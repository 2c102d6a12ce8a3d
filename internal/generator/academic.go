package generator

import (
	"errors"
	"fmt"

	"github.com/Rana718/schoolseed/internal/faker"
	"github.com/Rana718/schoolseed/internal/models"
)

type Subject struct {
	Prefix string
	Name   string
}

var Subjects = []Subject{
	{"MATH", "Mathematics"},
	{"PHYS", "Physics"},
	{"CHEM", "Chemistry"},
	{"BIO", "Biology"},
	{"LIT", "Literature"},
	{"ENG", "English"},
	{"HIST", "History"},
	{"GEO", "Geography"},
	{"PE", "Physical Education"},
	{"IT", "Computer Science"},
}

const (
	MinSubjectsPerClass = 8
	codeSuffixMin       = 100
	codeSuffixMax       = 999
)

var Semesters = []int{1, 2}

var ErrCodeSpaceExhausted = errors.New("course code space exhausted")

// codeSet hands out course codes that are unique for the whole run.
type codeSet struct {
	used     map[string]bool
	byPrefix map[string]int
}

func newCodeSet() *codeSet {
	return &codeSet{used: make(map[string]bool), byPrefix: make(map[string]int)}
}

func (c *codeSet) next(f *faker.Faker, prefix string) (string, error) {
	if c.byPrefix[prefix] >= codeSuffixMax-codeSuffixMin+1 {
		return "", fmt.Errorf("%w: prefix %s", ErrCodeSpaceExhausted, prefix)
	}
	for {
		code := fmt.Sprintf("%s%d", prefix, f.IntBetween(codeSuffixMin, codeSuffixMax))
		if !c.used[code] {
			c.used[code] = true
			c.byPrefix[prefix]++
			return code, nil
		}
	}
}

// GenerateCourses creates, for each persisted class, one course per sampled
// subject and semester. Teachers are drawn uniformly with no load balancing.
func GenerateCourses(f *faker.Faker, classIDs, teacherIDs []string, academicYear int) ([]models.Course, error) {
	if len(classIDs) > 0 && len(teacherIDs) == 0 {
		return nil, errors.New("cannot generate courses without teachers")
	}

	codes := newCodeSet()
	var courses []models.Course
	for _, classID := range classIDs {
		n := f.IntBetween(MinSubjectsPerClass, len(Subjects))
		subjects := faker.Sample(f, Subjects, n)

		for _, semester := range Semesters {
			for _, subject := range subjects {
				code, err := codes.next(f, subject.Prefix)
				if err != nil {
					return nil, err
				}
				courses = append(courses, models.Course{
					Name:         subject.Name,
					Code:         code,
					Description:  fmt.Sprintf("%s - Semester %d", subject.Name, semester),
					TeacherID:    faker.Pick(f, teacherIDs),
					ClassID:      classID,
					Semester:     semester,
					AcademicYear: academicYear,
					Credits:      f.IntBetween(1, 3),
				})
			}
		}
	}
	return courses, nil
}
