package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Rana718/schoolseed/internal/database"
)

type Kind int

const (
	KindID Kind = iota
	KindRef
	KindString
	KindText
	KindInt
	KindBool
	KindDate
	KindDecimal
	KindTimestamp
)

type Column struct {
	Name       string
	Kind       Kind
	Size       int
	Scale      int
	NotNull    bool
	Unique     bool
	Default    string
	References string
}

type Table struct {
	Name    string
	Columns []Column
}

func (t Table) Dependencies() []string {
	var deps []string
	for _, c := range t.Columns {
		if c.References != "" {
			deps = append(deps, c.References)
		}
	}
	return deps
}

func id() Column { return Column{Name: "id", Kind: KindID} }

func ref(name, table string, notNull bool) Column {
	return Column{Name: name, Kind: KindRef, References: table, NotNull: notNull}
}

func str(name string, size int, notNull bool) Column {
	return Column{Name: name, Kind: KindString, Size: size, NotNull: notNull}
}

// Tables is the target schema of the seeder. Declaration order is only a
// tie breaker; Ordered sorts by foreign keys.
var Tables = []Table{
	{Name: "grades", Columns: []Column{
		id(),
		ref("student_id", "students", true),
		ref("course_id", "courses", true),
		{Name: "grade", Kind: KindDecimal, Size: 5, Scale: 2, NotNull: true},
		str("exam_type", 20, true),
		{Name: "exam_date", Kind: KindDate, NotNull: true},
		{Name: "weight", Kind: KindDecimal, Size: 4, Scale: 2, NotNull: true},
		{Name: "notes", Kind: KindText},
	}},
	{Name: "attendance", Columns: []Column{
		id(),
		ref("student_id", "students", true),
		ref("course_id", "courses", false),
		{Name: "date", Kind: KindDate, NotNull: true},
		str("status", 20, true),
		{Name: "notes", Kind: KindText},
	}},
	{Name: "courses", Columns: []Column{
		id(),
		str("name", 100, true),
		{Name: "code", Kind: KindString, Size: 20, NotNull: true, Unique: true},
		{Name: "description", Kind: KindText},
		ref("teacher_id", "teachers", true),
		ref("class_id", "classes", true),
		{Name: "semester", Kind: KindInt, NotNull: true},
		{Name: "academic_year", Kind: KindInt, NotNull: true},
		{Name: "credits", Kind: KindInt, NotNull: true},
	}},
	{Name: "students", Columns: []Column{
		id(),
		{Name: "user_id", Kind: KindRef, References: "users", NotNull: true, Unique: true},
		str("first_name", 100, true),
		str("last_name", 100, true),
		{Name: "date_of_birth", Kind: KindDate, NotNull: true},
		str("gender", 10, false),
		ref("class_id", "classes", false),
		str("phone", 20, false),
		{Name: "address", Kind: KindText},
		str("parent_name", 200, false),
		str("parent_phone", 20, false),
		str("parent_email", 255, false),
	}},
	{Name: "classes", Columns: []Column{
		id(),
		str("name", 100, true),
		{Name: "grade_level", Kind: KindInt, NotNull: true},
		{Name: "academic_year", Kind: KindInt, NotNull: true},
		ref("teacher_id", "teachers", false),
		str("room_number", 50, false),
		{Name: "max_students", Kind: KindInt, NotNull: true, Default: "40"},
	}},
	{Name: "teachers", Columns: []Column{
		id(),
		{Name: "user_id", Kind: KindRef, References: "users", NotNull: true, Unique: true},
		str("first_name", 100, true),
		str("last_name", 100, true),
		str("department", 100, false),
		str("phone", 20, false),
		{Name: "hire_date", Kind: KindDate},
	}},
	{Name: "users", Columns: []Column{
		id(),
		{Name: "email", Kind: KindString, Size: 255, NotNull: true, Unique: true},
		str("password_hash", 255, true),
		str("role", 20, true),
		{Name: "is_active", Kind: KindBool, NotNull: true, Default: "TRUE"},
		{Name: "created_at", Kind: KindTimestamp, Default: "CURRENT_TIMESTAMP"},
	}},
}

// Ordered returns the tables parents first.
func Ordered() ([]Table, error) {
	byName := make(map[string]Table, len(Tables))
	graph := NewDependencyGraph()
	for _, t := range Tables {
		byName[t.Name] = t
		graph.AddTable(t.Name, t.Dependencies()...)
	}

	order, err := graph.BuildInsertionOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to build insertion order: %w", err)
	}

	tables := make([]Table, len(order))
	for i, name := range order {
		tables[i] = byName[name]
	}
	return tables, nil
}

func columnType(d database.Dialect, c Column) string {
	switch c.Kind {
	case KindID:
		switch d.Name {
		case database.MySQL:
			return "BIGINT AUTO_INCREMENT PRIMARY KEY"
		case database.SQLite:
			return "INTEGER PRIMARY KEY AUTOINCREMENT"
		default:
			return "UUID PRIMARY KEY DEFAULT gen_random_uuid()"
		}
	case KindRef:
		switch d.Name {
		case database.MySQL:
			return "BIGINT"
		case database.SQLite:
			return "INTEGER"
		default:
			return "UUID"
		}
	case KindString:
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	case KindText:
		return "TEXT"
	case KindInt:
		return "INTEGER"
	case KindBool:
		return "BOOLEAN"
	case KindDate:
		return "DATE"
	case KindDecimal:
		return fmt.Sprintf("NUMERIC(%d,%d)", c.Size, c.Scale)
	case KindTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func GenerateCreateTableSQL(d database.Dialect, t Table) string {
	var defs []string
	for _, c := range t.Columns {
		def := c.Name + " " + columnType(d, c)
		if c.NotNull {
			def += " NOT NULL"
		}
		if c.Unique {
			def += " UNIQUE"
		}
		if c.Default != "" {
			def += " DEFAULT " + c.Default
		}
		defs = append(defs, def)
	}
	for _, c := range t.Columns {
		if c.References != "" {
			defs = append(defs, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(id)", c.Name, c.References))
		}
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(defs, ",\n\t"))
}

// CreateStatements returns CREATE TABLE statements, parents first.
func CreateStatements(d database.Dialect) ([]string, error) {
	tables, err := Ordered()
	if err != nil {
		return nil, err
	}
	stmts := make([]string, len(tables))
	for i, t := range tables {
		stmts[i] = GenerateCreateTableSQL(d, t)
	}
	return stmts, nil
}

// DropStatements returns DROP TABLE statements, children first.
func DropStatements(d database.Dialect) ([]string, error) {
	tables, err := Ordered()
	if err != nil {
		return nil, err
	}
	stmts := make([]string, 0, len(tables))
	for i := len(tables) - 1; i >= 0; i-- {
		stmt := "DROP TABLE IF EXISTS " + tables[i].Name
		if d.Name == database.Postgres {
			stmt += " CASCADE"
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// Apply runs the statements in one transaction.
func Apply(ctx context.Context, db *sql.DB, stmts []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement '%s': %w", firstLine(stmt), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Missing returns the tables of the catalog that do not exist yet, parents first.
func Missing(ctx context.Context, db *sql.DB, d database.Dialect) ([]string, error) {
	existing, err := database.TableNames(ctx, db, d)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[strings.ToLower(name)] = true
	}

	tables, err := Ordered()
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, t := range tables {
		if !have[t.Name] {
			missing = append(missing, t.Name)
		}
	}
	return missing, nil
}
