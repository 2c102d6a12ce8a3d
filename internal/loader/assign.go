package loader

import (
	"errors"

	"github.com/Rana718/schoolseed/internal/faker"
	"github.com/Rana718/schoolseed/internal/models"
)

// AssignTeachers gives every class a homeroom teacher drawn uniformly.
func AssignTeachers(f *faker.Faker, drafts []models.ClassDraft, teacherIDs []string) ([]models.Class, error) {
	if len(drafts) > 0 && len(teacherIDs) == 0 {
		return nil, errors.New("cannot assign homeroom teachers: no teachers persisted")
	}
	classes := make([]models.Class, len(drafts))
	for i, d := range drafts {
		classes[i] = models.Class{ClassDraft: d, TeacherID: faker.Pick(f, teacherIDs)}
	}
	return classes, nil
}

// PartitionSizes splits n students over k classes. Every class gets n/k and
// the n%k leftovers go to distinct, randomly chosen classes, so sizes never
// differ by more than one.
func PartitionSizes(f *faker.Faker, n, k int) []int {
	if k <= 0 {
		return nil
	}
	sizes := make([]int, k)
	for i := range sizes {
		sizes[i] = n / k
	}
	for _, i := range f.Perm(k)[:n%k] {
		sizes[i]++
	}
	return sizes
}

// PartitionStudents places each student in exactly one class. Students fill
// classes in order, in blocks given by PartitionSizes.
func PartitionStudents(f *faker.Faker, drafts []models.StudentDraft, classIDs []string) ([]models.Student, error) {
	if len(drafts) > 0 && len(classIDs) == 0 {
		return nil, errors.New("cannot place students: no classes persisted")
	}

	students := make([]models.Student, 0, len(drafts))
	next := 0
	for i, size := range PartitionSizes(f, len(drafts), len(classIDs)) {
		for _, d := range drafts[next : next+size] {
			students = append(students, models.Student{StudentDraft: d, ClassID: classIDs[i]})
		}
		next += size
	}
	return students, nil
}
