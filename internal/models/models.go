package models

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

type ExamType string

const (
	ExamQuiz       ExamType = "quiz"
	ExamAssignment ExamType = "assignment"
	ExamMidterm    ExamType = "midterm"
	ExamFinal      ExamType = "final"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusExcused AttendanceStatus = "excused"
)

// User is an account row. Email is the natural key used to find the
// surrogate id after insertion.
type User struct {
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
}

// TeacherDraft is a teacher profile that still refers to its user by email.
type TeacherDraft struct {
	UserEmail  string
	FirstName  string
	LastName   string
	Department string
	Phone      string
	HireDate   time.Time
}

// ClassDraft is a class section before a homeroom teacher is known.
type ClassDraft struct {
	Name         string
	GradeLevel   int
	AcademicYear int
	RoomNumber   string
	MaxStudents  int
}

// Class is a ClassDraft with its teacher assigned.
type Class struct {
	ClassDraft
	TeacherID string
}

// StudentDraft is a student profile before class assignment.
type StudentDraft struct {
	UserEmail   string
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Gender      string
	Phone       *string
	Address     *string
	ParentName  string
	ParentPhone string
	ParentEmail *string
}

// Student is a StudentDraft placed in a persisted class.
type Student struct {
	StudentDraft
	ClassID string
}

type Course struct {
	Name         string
	Code         string
	Description  string
	TeacherID    string
	ClassID      string
	Semester     int
	AcademicYear int
	Credits      int
}

type Grade struct {
	StudentID string
	CourseID  string
	Score     float64
	ExamType  ExamType
	ExamDate  time.Time
	Weight    float64
	Notes     *string
}

// Attendance is a daily record; CourseID is always nil for generated rows.
type Attendance struct {
	StudentID string
	CourseID  *string
	Date      time.Time
	Status    AttendanceStatus
	Notes     *string
}
