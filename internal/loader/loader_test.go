package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Rana718/schoolseed/internal/database"
	"github.com/Rana718/schoolseed/internal/faker"
	"github.com/Rana718/schoolseed/internal/models"
	"github.com/Rana718/schoolseed/internal/schema"
)

var day = time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)

func setupSQLite(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()
	ctx := context.Background()
	d, _ := database.NewDialect("sqlite")
	db, err := database.Open(ctx, d, "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stmts, err := schema.CreateStatements(d)
	if err != nil {
		t.Fatalf("CreateStatements failed: %v", err)
	}
	if err := schema.Apply(ctx, db, stmts); err != nil {
		t.Fatalf("schema apply failed: %v", err)
	}
	return db, d
}

func users(role models.Role, n int) []models.User {
	out := make([]models.User, n)
	for i := range out {
		out[i] = models.User{
			Email:        fmt.Sprintf("%s%d@school.edu.vn", role, i+1),
			PasswordHash: "hash",
			Role:         role,
			IsActive:     true,
		}
	}
	return out
}

func TestInsertUsersMapsEveryEmail(t *testing.T) {
	db, d := setupSQLite(t)
	l := New(db, d, 3)

	us := users(models.RoleStudent, 10)
	ids, err := l.InsertUsers(context.Background(), us)
	if err != nil {
		t.Fatalf("InsertUsers failed: %v", err)
	}
	if len(ids) != len(us) {
		t.Fatalf("expected %d ids, got %d", len(us), len(ids))
	}

	for _, u := range us {
		var email string
		if err := db.QueryRow("SELECT email FROM users WHERE id = ?", ids[u.Email]).Scan(&email); err != nil {
			t.Fatalf("lookup %s: %v", u.Email, err)
		}
		if email != u.Email {
			t.Errorf("id %s belongs to %s, want %s", ids[u.Email], email, u.Email)
		}
	}
}

func TestInsertUsersDuplicateEmail(t *testing.T) {
	db, d := setupSQLite(t)
	l := New(db, d, 50)

	us := users(models.RoleTeacher, 2)
	us[1].Email = us[0].Email
	_, err := l.InsertUsers(context.Background(), us)
	if err == nil {
		t.Fatal("expected a unique violation")
	}
	if !database.IsConstraintViolation(err) {
		t.Errorf("expected a constraint violation, got %v", err)
	}
}

func TestLoadFullChain(t *testing.T) {
	ctx := context.Background()
	db, d := setupSQLite(t)
	l := New(db, d, 4)
	f := faker.New(7)

	teacherUsers := users(models.RoleTeacher, 3)
	studentUsers := users(models.RoleStudent, 11)
	userIDs, err := l.InsertUsers(ctx, append(append([]models.User{}, teacherUsers...), studentUsers...))
	if err != nil {
		t.Fatalf("InsertUsers failed: %v", err)
	}

	var teacherDrafts []models.TeacherDraft
	for _, u := range teacherUsers {
		teacherDrafts = append(teacherDrafts, models.TeacherDraft{UserEmail: u.Email, FirstName: "A", LastName: "B", HireDate: day})
	}
	teacherIDs, err := l.InsertTeachers(ctx, teacherDrafts, userIDs)
	if err != nil {
		t.Fatalf("InsertTeachers failed: %v", err)
	}

	drafts := []models.ClassDraft{
		{Name: "6A1", GradeLevel: 6, AcademicYear: 2024, RoomNumber: "601", MaxStudents: 40},
		{Name: "6A2", GradeLevel: 6, AcademicYear: 2024, RoomNumber: "602", MaxStudents: 40},
		{Name: "7A1", GradeLevel: 7, AcademicYear: 2024, RoomNumber: "701", MaxStudents: 40},
	}
	classes, err := AssignTeachers(f, drafts, teacherIDs)
	if err != nil {
		t.Fatalf("AssignTeachers failed: %v", err)
	}
	classIDs, err := l.InsertClasses(ctx, classes)
	if err != nil {
		t.Fatalf("InsertClasses failed: %v", err)
	}

	var studentDrafts []models.StudentDraft
	for _, u := range studentUsers {
		studentDrafts = append(studentDrafts, models.StudentDraft{UserEmail: u.Email, FirstName: "C", LastName: "D", DateOfBirth: day, Gender: "F"})
	}
	students, err := PartitionStudents(f, studentDrafts, classIDs)
	if err != nil {
		t.Fatalf("PartitionStudents failed: %v", err)
	}
	studentIDs, err := l.InsertStudents(ctx, students, userIDs)
	if err != nil {
		t.Fatalf("InsertStudents failed: %v", err)
	}
	if len(studentIDs) != len(studentDrafts) {
		t.Fatalf("expected %d student ids, got %d", len(studentDrafts), len(studentIDs))
	}

	rows, err := db.Query("SELECT class_id, COUNT(*) FROM students GROUP BY class_id")
	if err != nil {
		t.Fatalf("group students: %v", err)
	}
	var sizes []int
	for rows.Next() {
		var classID sql.NullString
		var n int
		if err := rows.Scan(&classID, &n); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if !classID.Valid {
			t.Error("student without a class")
		}
		sizes = append(sizes, n)
	}
	rows.Close()
	if len(sizes) != 3 {
		t.Fatalf("students spread over %d classes, want 3", len(sizes))
	}
	for _, n := range sizes {
		if n < 3 || n > 4 {
			t.Errorf("class size %d not within one of 11/3", n)
		}
	}

	courses := []models.Course{
		{Name: "Mathematics", Code: "MATH101", TeacherID: teacherIDs[0], ClassID: classIDs[0], Semester: 1, AcademicYear: 2024, Credits: 2},
		{Name: "Physics", Code: "PHYS202", TeacherID: teacherIDs[1], ClassID: classIDs[1], Semester: 2, AcademicYear: 2024, Credits: 3},
	}
	courseIDs, err := l.InsertCourses(ctx, courses)
	if err != nil {
		t.Fatalf("InsertCourses failed: %v", err)
	}

	note := "late submission"
	grades := []models.Grade{
		{StudentID: studentIDs[0], CourseID: courseIDs[0], Score: 7.25, ExamType: models.ExamQuiz, ExamDate: day, Weight: 0.2},
		{StudentID: studentIDs[1], CourseID: courseIDs[1], Score: 10, ExamType: models.ExamFinal, ExamDate: day, Weight: 0.3, Notes: &note},
	}
	n, err := l.InsertGrades(ctx, grades)
	if err != nil || n != 2 {
		t.Fatalf("InsertGrades = %d, %v", n, err)
	}

	var attendance []models.Attendance
	for i := 0; i < 9; i++ {
		attendance = append(attendance, models.Attendance{StudentID: studentIDs[i], Date: day, Status: models.StatusPresent})
	}
	n, err = l.InsertAttendance(ctx, attendance)
	if err != nil || n != 9 {
		t.Fatalf("InsertAttendance = %d, %v", n, err)
	}
}

func TestInsertTeachersUnknownUser(t *testing.T) {
	db, d := setupSQLite(t)
	l := New(db, d, 50)

	_, err := l.InsertTeachers(context.Background(), []models.TeacherDraft{{UserEmail: "ghost@school.edu.vn"}}, map[string]string{})
	var ce *ConsistencyError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a ConsistencyError, got %v", err)
	}
	if len(ce.Missing) != 1 || ce.Missing[0] != "ghost@school.edu.vn" {
		t.Errorf("unexpected missing keys %v", ce.Missing)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM teachers").Scan(&count)
	if count != 0 {
		t.Errorf("nothing should be written, found %d teachers", count)
	}
}

func TestAlignDetectsShortMapping(t *testing.T) {
	_, err := align("users", []string{"a", "b", "c"}, map[string]string{"a": "1", "c": "3"})
	var ce *ConsistencyError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a ConsistencyError, got %v", err)
	}
	if ce.Submitted != 3 || ce.Returned != 2 {
		t.Errorf("unexpected counts %+v", ce)
	}
	details := ce.Details()
	for _, want := range []string{"stage:     users", "missing:   b", "available: a, c"} {
		if !strings.Contains(details, want) {
			t.Errorf("details missing %q:\n%s", want, details)
		}
	}

	// an extra key is as wrong as a missing one
	if _, err := align("users", []string{"a"}, map[string]string{"a": "1", "z": "9"}); err == nil {
		t.Error("expected an error for an unexpected key")
	}
}

func TestSampleTruncates(t *testing.T) {
	got := sample([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"})
	if got != "a, b, c, d, e, f, g, h, i, j ... (2 more)" {
		t.Errorf("sample = %q", got)
	}
}

type fakeResult struct{ first, affected int64 }

func (r fakeResult) LastInsertId() (int64, error) { return r.first, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.affected, nil }

// fakeMySQL answers multi-row inserts the way MySQL does: the first
// auto-increment value of the statement plus the affected row count.
type fakeMySQL struct {
	next    int64
	short   bool
	queries []string
}

func (f *fakeMySQL) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	f.queries = append(f.queries, query)
	rows := int64(strings.Count(query, "(")) - 1
	res := fakeResult{first: f.next, affected: rows}
	if f.short {
		res.affected--
	}
	f.next += rows
	return res, nil
}

func (f *fakeMySQL) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errors.New("mysql has no RETURNING")
}

func TestMySQLIdsFromLastInsertId(t *testing.T) {
	d, _ := database.NewDialect("mysql")
	q := &fakeMySQL{next: 100}
	l := New(q, d, 2)

	us := users(models.RoleStudent, 5)
	ids, err := l.InsertUsers(context.Background(), us)
	if err != nil {
		t.Fatalf("InsertUsers failed: %v", err)
	}
	if len(q.queries) != 3 {
		t.Errorf("expected 3 batches, got %d", len(q.queries))
	}
	if strings.Contains(q.queries[0], "RETURNING") {
		t.Error("mysql insert should not use RETURNING")
	}
	for i, u := range us {
		if want := fmt.Sprint(100 + i); ids[u.Email] != want {
			t.Errorf("%s got id %s, want %s", u.Email, ids[u.Email], want)
		}
	}

	q = &fakeMySQL{next: 1, short: true}
	_, err = New(q, d, 50).InsertUsers(context.Background(), us)
	var ce *ConsistencyError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a ConsistencyError, got %v", err)
	}
}

func TestPartitionSizes(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		for _, tc := range []struct{ n, k int }{{10, 21}, {100, 28}, {11, 3}, {0, 5}, {40, 4}} {
			sizes := PartitionSizes(faker.New(seed), tc.n, tc.k)
			if len(sizes) != tc.k {
				t.Fatalf("expected %d sizes, got %d", tc.k, len(sizes))
			}
			total, lo, hi := 0, tc.n, 0
			for _, s := range sizes {
				total += s
				lo = min(lo, s)
				hi = max(hi, s)
			}
			if total != tc.n {
				t.Errorf("n=%d k=%d: sizes sum to %d", tc.n, tc.k, total)
			}
			if hi-lo > 1 {
				t.Errorf("n=%d k=%d: sizes differ by %d", tc.n, tc.k, hi-lo)
			}
		}
	}
}

func TestPartitionStudentsEveryStudentPlaced(t *testing.T) {
	drafts := make([]models.StudentDraft, 10)
	for i := range drafts {
		drafts[i].UserEmail = fmt.Sprintf("student%d@school.edu.vn", i+1)
	}
	classIDs := make([]string, 21)
	for i := range classIDs {
		classIDs[i] = fmt.Sprint(i + 1)
	}

	students, err := PartitionStudents(faker.New(42), drafts, classIDs)
	if err != nil {
		t.Fatalf("PartitionStudents failed: %v", err)
	}
	if len(students) != len(drafts) {
		t.Fatalf("expected %d students, got %d", len(drafts), len(students))
	}
	perClass := map[string]int{}
	for i, s := range students {
		if s.UserEmail != drafts[i].UserEmail {
			t.Errorf("student %d reordered", i)
		}
		perClass[s.ClassID]++
	}
	for id, n := range perClass {
		if n != 1 {
			t.Errorf("class %s holds %d students", id, n)
		}
	}

	if _, err := PartitionStudents(faker.New(1), drafts, nil); err == nil {
		t.Error("expected an error without classes")
	}
}
