package seeder

import (
	"github.com/fatih/color"
)

// Reporter receives progress of a run.
type Reporter interface {
	Start(seed int64)
	Stage(name string, records int)
	Done(name string, written int)
	RolledBack(err error)
	Committed()
}

// ConsoleReporter prints colored progress lines.
type ConsoleReporter struct{}

func (ConsoleReporter) Start(seed int64) {
	color.Cyan("🌱 Starting database seeding (seed %d)...", seed)
	color.Cyan("🔒 Transaction started")
}

func (ConsoleReporter) Stage(name string, records int) {
	color.Cyan("  📝 Seeding %s (%d records)...", name, records)
}

func (ConsoleReporter) Done(name string, written int) {
	color.Green("  ✅ %s seeded (%d rows)", name, written)
}

func (ConsoleReporter) RolledBack(err error) {
	color.Yellow("🔄 Transaction rolled back: %v", err)
}

func (ConsoleReporter) Committed() {
	color.Cyan("🔓 Transaction committed")
}

type nopReporter struct{}

func (nopReporter) Start(int64) {}
func (nopReporter) Stage(string, int) {}
func (nopReporter) Done(string, int) {}
func (nopReporter) RolledBack(error) {}
func (nopReporter) Committed() {}
