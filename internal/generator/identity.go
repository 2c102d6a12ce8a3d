package generator

import (
	"fmt"

	"github.com/Rana718/schoolseed/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	EmailDomain = "school.edu.vn"
	AdminEmail  = "admin@" + EmailDomain
)

// Passwords are the plain-text default logins, one per role.
type Passwords struct {
	Admin   string
	Teacher string
	Student string
}

func DefaultPasswords() Passwords {
	return Passwords{Admin: "Admin@123", Teacher: "Teacher@123", Student: "Student@123"}
}

// Credentials holds one bcrypt hash per role, shared by every user of that role.
type Credentials struct {
	Admin   string
	Teacher string
	Student string
}

// HashPasswords hashes each role password once.
func HashPasswords(p Passwords, cost int) (Credentials, error) {
	var c Credentials
	for _, item := range []struct {
		role  models.Role
		plain string
		dst   *string
	}{
		{models.RoleAdmin, p.Admin, &c.Admin},
		{models.RoleTeacher, p.Teacher, &c.Teacher},
		{models.RoleStudent, p.Student, &c.Student},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(item.plain), cost)
		if err != nil {
			return Credentials{}, fmt.Errorf("failed to hash %s password: %w", item.role, err)
		}
		*item.dst = string(hash)
	}
	return c, nil
}

func TeacherEmail(n int) string {
	return fmt.Sprintf("teacher%d@%s", n, EmailDomain)
}

func StudentEmail(n int) string {
	return fmt.Sprintf("student%d@%s", n, EmailDomain)
}

// Identities is the full set of user accounts of a run.
type Identities struct {
	Admin    models.User
	Teachers []models.User
	Students []models.User
}

// All returns admin, teachers and students in that order.
func (id Identities) All() []models.User {
	users := make([]models.User, 0, 1+len(id.Teachers)+len(id.Students))
	users = append(users, id.Admin)
	users = append(users, id.Teachers...)
	return append(users, id.Students...)
}

// GenerateIdentities builds the admin plus numbered teacher and student
// accounts. Emails are derived from the position, so they never collide.
func GenerateIdentities(teachers, students int, creds Credentials) Identities {
	id := Identities{
		Admin: models.User{
			Email:        AdminEmail,
			PasswordHash: creds.Admin,
			Role:         models.RoleAdmin,
			IsActive:     true,
		},
		Teachers: make([]models.User, teachers),
		Students: make([]models.User, students),
	}
	for i := range id.Teachers {
		id.Teachers[i] = models.User{
			Email:        TeacherEmail(i + 1),
			PasswordHash: creds.Teacher,
			Role:         models.RoleTeacher,
			IsActive:     true,
		}
	}
	for i := range id.Students {
		id.Students[i] = models.User{
			Email:        StudentEmail(i + 1),
			PasswordHash: creds.Student,
			Role:         models.RoleStudent,
			IsActive:     true,
		}
	}
	return id
}
