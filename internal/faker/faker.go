package faker

import (
	"fmt"
	"strings"
)

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
	"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Charles", "Karen", "Daniel", "Nancy", "Matthew", "Lisa",
	"Anthony", "Betty", "Mark", "Sandra", "Steven", "Ashley", "Paul", "Emily",
	"Andrew", "Donna", "Joshua", "Michelle", "Kevin", "Carol", "Brian", "Amanda",
	"George", "Melissa", "Edward", "Deborah", "Ryan", "Laura", "Jacob", "Olivia",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
	"Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson",
	"White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker",
	"Young", "Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill",
}

var streets = []string{
	"Main", "Oak", "Pine", "Maple", "Cedar", "Elm", "Washington", "Lake", "Hill", "Park",
}

var streetSuffixes = []string{"Street", "Avenue", "Road", "Lane", "Drive", "Court"}

var cities = []string{
	"Springfield", "Riverside", "Franklin", "Greenville", "Fairview", "Madison",
	"Georgetown", "Salem", "Clinton", "Arlington",
}

var states = []string{"CA", "TX", "NY", "FL", "IL", "PA", "OH", "GA", "NC", "MI"}

var mailDomains = []string{"example.com", "mail.com", "inbox.org", "post.net"}

var words = []string{
	"student", "review", "homework", "late", "bus", "family", "doctor", "appointment",
	"excellent", "progress", "needs", "improvement", "attention", "class", "project",
	"participation", "effort", "quiz", "notebook", "reading", "absent", "sick", "travel",
	"practice", "focus", "parent", "meeting", "schedule", "weather", "transport",
}

const maxPhoneLen = 20

func (f *Faker) FirstName() string {
	return Pick(f, firstNames)
}

func (f *Faker) LastName() string {
	return Pick(f, lastNames)
}

func (f *Faker) Name() string {
	return f.FirstName() + " " + f.LastName()
}

// Phone returns a US style number that fits a VARCHAR(20) column.
func (f *Faker) Phone() string {
	var phone string
	switch f.rand.Intn(3) {
	case 0:
		phone = fmt.Sprintf("(%03d) %03d-%04d", f.IntBetween(200, 999), f.rand.Intn(1000), f.rand.Intn(10000))
	case 1:
		phone = fmt.Sprintf("%03d-%03d-%04d", f.IntBetween(200, 999), f.rand.Intn(1000), f.rand.Intn(10000))
	default:
		phone = fmt.Sprintf("+1-%03d-%03d-%04d", f.IntBetween(200, 999), f.rand.Intn(1000), f.rand.Intn(10000))
	}
	if len(phone) > maxPhoneLen {
		phone = phone[:maxPhoneLen]
	}
	return phone
}

func (f *Faker) Address() string {
	return fmt.Sprintf("%d %s %s, %s, %s %05d",
		f.IntBetween(1, 9999),
		Pick(f, streets),
		Pick(f, streetSuffixes),
		Pick(f, cities),
		Pick(f, states),
		f.rand.Intn(100000),
	)
}

// Email returns a free-form personal address. It is not guaranteed unique.
func (f *Faker) Email() string {
	return fmt.Sprintf("%s.%s%d@%s",
		strings.ToLower(f.FirstName()),
		strings.ToLower(f.LastName()),
		f.rand.Intn(100),
		Pick(f, mailDomains),
	)
}

func (f *Faker) Sentence() string {
	n := f.IntBetween(4, 9)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = Pick(f, words)
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
