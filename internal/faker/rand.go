package faker

import (
	"math"
	"math/rand"
	"time"
)

// Faker is the single random source of a run. It is not safe for concurrent use.
type Faker struct {
	rand *rand.Rand
}

func New(seed int64) *Faker {
	return &Faker{rand: rand.New(rand.NewSource(seed))}
}

// IntBetween returns a uniform int in [lo, hi].
func (f *Faker) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + f.rand.Intn(hi-lo+1)
}

// FloatBetween returns a uniform float in [lo, hi).
func (f *Faker) FloatBetween(lo, hi float64) float64 {
	return lo + f.rand.Float64()*(hi-lo)
}

// Chance reports true with probability p.
func (f *Faker) Chance(p float64) bool {
	return f.rand.Float64() < p
}

func (f *Faker) Float64() float64 {
	return f.rand.Float64()
}

func (f *Faker) Intn(n int) int {
	return f.rand.Intn(n)
}

func (f *Faker) Perm(n int) []int {
	return f.rand.Perm(n)
}

// DateBetween returns a calendar date in [from, to], both truncated to the day.
func (f *Faker) DateBetween(from, to time.Time) time.Time {
	from, to = truncateDay(from), truncateDay(to)
	if !to.After(from) {
		return from
	}
	days := int(math.Round(to.Sub(from).Hours() / 24))
	return from.AddDate(0, 0, f.rand.Intn(days+1))
}

// DateOfBirth returns a birth date for someone exactly age years old on today.
func (f *Faker) DateOfBirth(age int, today time.Time) time.Time {
	latest := truncateDay(today).AddDate(-age, 0, 0)
	earliest := latest.AddDate(-1, 0, 1)
	return f.DateBetween(earliest, latest)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Pick returns a uniformly chosen element. items must not be empty.
func Pick[T any](f *Faker, items []T) T {
	return items[f.rand.Intn(len(items))]
}

// Sample returns n distinct elements of items in random order.
func Sample[T any](f *Faker, items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	perm := f.rand.Perm(len(items))
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = items[perm[i]]
	}
	return out
}

// Weighted picks one element with probability proportional to its weight.
func Weighted[T any](f *Faker, items []T, weights []float64) T {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := f.rand.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return items[i]
		}
	}
	return items[len(items)-1]
}
