package loader

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Rana718/schoolseed/internal/models"
)

const sampleSize = 10

// ConsistencyError reports that the identifiers returned by a bulk insert
// cannot be matched back to the submitted records.
type ConsistencyError struct {
	Stage     string
	Submitted int
	Returned  int
	Missing   []string
	Available []string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %d records submitted but %d identifiers mapped (%d missing)",
		e.Stage, e.Submitted, e.Returned, len(e.Missing))
}

// Details renders the diagnostic dump printed before a run aborts.
func (e *ConsistencyError) Details() string {
	var b strings.Builder
	fmt.Fprintf(&b, "stage:     %s\n", e.Stage)
	fmt.Fprintf(&b, "submitted: %d\n", e.Submitted)
	fmt.Fprintf(&b, "returned:  %d\n", e.Returned)
	fmt.Fprintf(&b, "missing:   %s\n", sample(e.Missing))
	fmt.Fprintf(&b, "available: %s\n", sample(e.Available))
	return b.String()
}

func sample(keys []string) string {
	if len(keys) == 0 {
		return "(none)"
	}
	if len(keys) <= sampleSize {
		return strings.Join(keys, ", ")
	}
	return fmt.Sprintf("%s ... (%d more)", strings.Join(keys[:sampleSize], ", "), len(keys)-sampleSize)
}

// align orders ids by keys. Every key must be mapped and the map must hold
// nothing else.
func align(stage string, keys []string, ids map[string]string) ([]string, error) {
	out := make([]string, 0, len(keys))
	var missing []string
	for _, k := range keys {
		id, ok := ids[k]
		if !ok {
			missing = append(missing, k)
			continue
		}
		out = append(out, id)
	}

	if len(missing) > 0 || len(ids) != len(keys) {
		available := slices.Sorted(maps.Keys(ids))
		return nil, &ConsistencyError{
			Stage:     stage,
			Submitted: len(keys),
			Returned:  len(ids),
			Missing:   missing,
			Available: available,
		}
	}
	return out, nil
}

// CheckUserMapping verifies that ids maps every submitted email and nothing else.
func CheckUserMapping(users []models.User, ids map[string]string) error {
	emails := make([]string, len(users))
	for i, u := range users {
		emails[i] = u.Email
	}
	_, err := align("users", emails, ids)
	return err
}
