package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/schoolseed/internal/database"
	"github.com/Rana718/schoolseed/internal/models"
)

const DefaultBatchSize = 50

// Querier is satisfied by *sql.Tx and *sql.DB.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Loader bulk-inserts generated records and maps them to the identifiers
// the database assigned.
type Loader struct {
	q         Querier
	dialect   database.Dialect
	batchSize int
}

func New(q Querier, d database.Dialect, batchSize int) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Loader{q: q, dialect: d, batchSize: batchSize}
}

// InsertUsers returns one identifier per submitted email.
func (l *Loader) InsertUsers(ctx context.Context, users []models.User) (map[string]string, error) {
	keys := make([]string, len(users))
	rows := make([][]any, len(users))
	for i, u := range users {
		keys[i] = u.Email
		rows[i] = []any{u.Email, u.PasswordHash, string(u.Role), u.IsActive}
	}

	ids, err := l.insertKeyed(ctx, "users", "email",
		[]string{"email", "password_hash", "role", "is_active"}, keys, rows)
	if err != nil {
		return nil, err
	}
	if err := CheckUserMapping(users, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (l *Loader) userID(stage string, userIDs map[string]string, emails []string) ([]string, error) {
	sub := make(map[string]string, len(emails))
	for _, e := range emails {
		if id, ok := userIDs[e]; ok {
			sub[e] = id
		}
	}
	return align(stage, emails, sub)
}

// InsertTeachers returns teacher identifiers in input order.
func (l *Loader) InsertTeachers(ctx context.Context, teachers []models.TeacherDraft, userIDs map[string]string) ([]string, error) {
	emails := make([]string, len(teachers))
	for i, t := range teachers {
		emails[i] = t.UserEmail
	}
	uids, err := l.userID("teachers: user lookup", userIDs, emails)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(teachers))
	for i, t := range teachers {
		rows[i] = []any{uids[i], t.FirstName, t.LastName, t.Department, t.Phone, t.HireDate}
	}

	ids, err := l.insertKeyed(ctx, "teachers", "user_id",
		[]string{"user_id", "first_name", "last_name", "department", "phone", "hire_date"}, uids, rows)
	if err != nil {
		return nil, err
	}
	return align("teachers", uids, ids)
}

// InsertClasses returns class identifiers in input order.
func (l *Loader) InsertClasses(ctx context.Context, classes []models.Class) ([]string, error) {
	keys := make([]string, len(classes))
	rows := make([][]any, len(classes))
	for i, c := range classes {
		keys[i] = c.Name
		rows[i] = []any{c.Name, c.GradeLevel, c.AcademicYear, nullable(c.TeacherID), c.RoomNumber, c.MaxStudents}
	}

	ids, err := l.insertKeyed(ctx, "classes", "name",
		[]string{"name", "grade_level", "academic_year", "teacher_id", "room_number", "max_students"}, keys, rows)
	if err != nil {
		return nil, err
	}
	return align("classes", keys, ids)
}

// InsertStudents returns student identifiers in input order.
func (l *Loader) InsertStudents(ctx context.Context, students []models.Student, userIDs map[string]string) ([]string, error) {
	emails := make([]string, len(students))
	for i, s := range students {
		emails[i] = s.UserEmail
	}
	uids, err := l.userID("students: user lookup", userIDs, emails)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(students))
	for i, s := range students {
		rows[i] = []any{
			uids[i], s.FirstName, s.LastName, s.DateOfBirth, s.Gender, nullable(s.ClassID),
			s.Phone, s.Address, s.ParentName, s.ParentPhone, s.ParentEmail,
		}
	}

	ids, err := l.insertKeyed(ctx, "students", "user_id", []string{
		"user_id", "first_name", "last_name", "date_of_birth", "gender", "class_id",
		"phone", "address", "parent_name", "parent_phone", "parent_email",
	}, uids, rows)
	if err != nil {
		return nil, err
	}
	return align("students", uids, ids)
}

// InsertCourses returns course identifiers in input order.
func (l *Loader) InsertCourses(ctx context.Context, courses []models.Course) ([]string, error) {
	keys := make([]string, len(courses))
	rows := make([][]any, len(courses))
	for i, c := range courses {
		keys[i] = c.Code
		rows[i] = []any{c.Name, c.Code, c.Description, c.TeacherID, c.ClassID, c.Semester, c.AcademicYear, c.Credits}
	}

	ids, err := l.insertKeyed(ctx, "courses", "code", []string{
		"name", "code", "description", "teacher_id", "class_id", "semester", "academic_year", "credits",
	}, keys, rows)
	if err != nil {
		return nil, err
	}
	return align("courses", keys, ids)
}

// InsertGrades returns the number of rows written.
func (l *Loader) InsertGrades(ctx context.Context, grades []models.Grade) (int, error) {
	rows := make([][]any, len(grades))
	for i, g := range grades {
		rows[i] = []any{g.StudentID, g.CourseID, g.Score, string(g.ExamType), g.ExamDate, g.Weight, g.Notes}
	}
	return l.insertRows(ctx, "grades",
		[]string{"student_id", "course_id", "grade", "exam_type", "exam_date", "weight", "notes"}, rows)
}

// InsertAttendance returns the number of rows written.
func (l *Loader) InsertAttendance(ctx context.Context, records []models.Attendance) (int, error) {
	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{r.StudentID, r.CourseID, r.Date, string(r.Status), r.Notes}
	}
	return l.insertRows(ctx, "attendance",
		[]string{"student_id", "course_id", "date", "status", "notes"}, rows)
}

func (l *Loader) batches(n int) [][2]int {
	var out [][2]int
	for start := 0; start < n; start += l.batchSize {
		out = append(out, [2]int{start, min(start+l.batchSize, n)})
	}
	return out
}

func (l *Loader) insertBuilder(table string, columns []string, rows [][]any) squirrel.InsertBuilder {
	q := l.dialect.Builder().Insert(table).Columns(columns...)
	for _, r := range rows {
		q = q.Values(r...)
	}
	return q
}

// insertKeyed writes rows in batches and maps each natural key to the new id.
// Dialects with RETURNING echo the key back; MySQL ids are derived from the
// first auto-increment value of each multi-row insert.
func (l *Loader) insertKeyed(ctx context.Context, table, keyColumn string, columns, keys []string, rows [][]any) (map[string]string, error) {
	ids := make(map[string]string, len(rows))
	for _, b := range l.batches(len(rows)) {
		q := l.insertBuilder(table, columns, rows[b[0]:b[1]])

		if l.dialect.Returning {
			query, args, err := q.Suffix(fmt.Sprintf("RETURNING CAST(%s AS TEXT), CAST(id AS TEXT)", keyColumn)).ToSql()
			if err != nil {
				return nil, fmt.Errorf("failed to build %s insert: %w", table, err)
			}
			if err := l.scanReturning(ctx, query, args, ids); err != nil {
				return nil, fmt.Errorf("failed to insert %s batch: %w", table, err)
			}
			continue
		}

		query, args, err := q.ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build %s insert: %w", table, err)
		}
		res, err := l.q.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to insert %s batch: %w", table, err)
		}
		first, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s insert id: %w", table, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s row count: %w", table, err)
		}
		if int(affected) != b[1]-b[0] {
			return nil, &ConsistencyError{Stage: table, Submitted: b[1] - b[0], Returned: int(affected)}
		}
		for i, k := range keys[b[0]:b[1]] {
			ids[k] = strconv.FormatInt(first+int64(i), 10)
		}
	}
	return ids, nil
}

func (l *Loader) scanReturning(ctx context.Context, query string, args []any, ids map[string]string) error {
	rows, err := l.q.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key, id string
		if err := rows.Scan(&key, &id); err != nil {
			return err
		}
		ids[key] = id
	}
	return rows.Err()
}

func (l *Loader) insertRows(ctx context.Context, table string, columns []string, rows [][]any) (int, error) {
	total := 0
	for _, b := range l.batches(len(rows)) {
		query, args, err := l.insertBuilder(table, columns, rows[b[0]:b[1]]).ToSql()
		if err != nil {
			return total, fmt.Errorf("failed to build %s insert: %w", table, err)
		}
		res, err := l.q.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("failed to insert %s batch: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("failed to read %s row count: %w", table, err)
		}
		total += int(n)
	}
	if total != len(rows) {
		return total, &ConsistencyError{Stage: table, Submitted: len(rows), Returned: total}
	}
	return total, nil
}

func nullable(id string) any {
	if id == "" {
		return nil
	}
	return id
}
