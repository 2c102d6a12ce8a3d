package generator

import (
	"iter"
	"math"
	"time"

	"github.com/Rana718/schoolseed/internal/faker"
	"github.com/Rana718/schoolseed/internal/models"
)

// ExamSpec describes one assessment per student/course pair. Dates fall
// between MaxDaysAgo and MinDaysAgo before the reference day.
type ExamSpec struct {
	Type       models.ExamType
	Weight     float64
	MaxDaysAgo int
	MinDaysAgo int
}

var Exams = []ExamSpec{
	{models.ExamQuiz, 0.2, 60, 30},
	{models.ExamAssignment, 0.2, 45, 15},
	{models.ExamMidterm, 0.3, 30, 10},
	{models.ExamFinal, 0.3, 10, 0},
}

const (
	minCoursesPerStudent = 8
	maxCoursesPerStudent = 10

	minAbility = 5.0
	maxAbility = 9.5
	scoreNoise = 1.5

	gradeNoteChance = 0.2
)

// Score clamps ability plus noise to [0, 10] and rounds to two decimals.
func Score(ability, noise float64) float64 {
	v := math.Max(0, math.Min(10, ability+noise))
	return math.Round(v*100) / 100
}

// Grades lazily yields grade records student by student. The sequence is
// finite; use Take to cap it. Random draws happen only as records are pulled.
func Grades(f *faker.Faker, studentIDs, courseIDs []string, today time.Time) iter.Seq[models.Grade] {
	return func(yield func(models.Grade) bool) {
		if len(courseIDs) == 0 {
			return
		}
		hi := min(maxCoursesPerStudent, len(courseIDs))
		lo := min(minCoursesPerStudent, hi)

		for _, studentID := range studentIDs {
			courses := faker.Sample(f, courseIDs, f.IntBetween(lo, hi))
			for _, courseID := range courses {
				ability := f.FloatBetween(minAbility, maxAbility)
				for _, exam := range Exams {
					g := models.Grade{
						StudentID: studentID,
						CourseID:  courseID,
						Score:     Score(ability, f.FloatBetween(-scoreNoise, scoreNoise)),
						ExamType:  exam.Type,
						ExamDate: f.DateBetween(
							today.AddDate(0, 0, -exam.MaxDaysAgo),
							today.AddDate(0, 0, -exam.MinDaysAgo),
						),
						Weight: exam.Weight,
					}
					if f.Chance(gradeNoteChance) {
						g.Notes = ptr(f.Sentence())
					}
					if !yield(g) {
						return
					}
				}
			}
		}
	}
}

// Take collects at most limit items from seq and stops the producer there.
func Take[T any](seq iter.Seq[T], limit int) []T {
	if limit <= 0 {
		return nil
	}
	out := make([]T, 0, limit)
	for v := range seq {
		out = append(out, v)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// GenerateGrades returns at most limit grades.
func GenerateGrades(f *faker.Faker, studentIDs, courseIDs []string, limit int, today time.Time) []models.Grade {
	return Take(Grades(f, studentIDs, courseIDs, today), limit)
}

var (
	AttendanceStatuses = []models.AttendanceStatus{
		models.StatusPresent, models.StatusAbsent, models.StatusLate, models.StatusExcused,
	}
	AttendanceWeights = []float64{0.85, 0.05, 0.07, 0.03}
)

const (
	noRecordChance       = 0.1
	attendanceNoteChance = 0.3
)

// IsSchoolDay reports whether a day index of the attendance window can carry
// a record. Indices 5 and 6 of every week are the weekend.
func IsSchoolDay(day int) bool {
	return day%7 != 5 && day%7 != 6
}

// AttendanceStart is the first day of a window of days ending today.
func AttendanceStart(today time.Time, days int) time.Time {
	y, m, d := today.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, today.Location()).AddDate(0, 0, -days)
}

// GenerateAttendance produces daily records for every student over the
// trailing window, skipping weekends and about one in ten school days.
func GenerateAttendance(f *faker.Faker, studentIDs []string, days int, today time.Time) []models.Attendance {
	start := AttendanceStart(today, days)
	var records []models.Attendance
	for _, studentID := range studentIDs {
		for day := 0; day < days; day++ {
			if !IsSchoolDay(day) {
				continue
			}
			if f.Chance(noRecordChance) {
				continue
			}
			rec := models.Attendance{
				StudentID: studentID,
				Date:      start.AddDate(0, 0, day),
				Status:    faker.Weighted(f, AttendanceStatuses, AttendanceWeights),
			}
			if rec.Status != models.StatusPresent && f.Chance(attendanceNoteChance) {
				rec.Notes = ptr(f.Sentence())
			}
			records = append(records, rec)
		}
	}
	return records
}
