// Package selector resolves a run target into the fixtures to execute.
package selector

import (
	"strconv"
	"strings"

	"xmltrip/internal/fixture"

	"github.com/pkg/errors"
)

// ErrInvalidSelection is returned for targets outside the registry.
var ErrInvalidSelection = errors.New("invalid fixture selection")

// Target is a fixture id or All.
type Target int

// All selects every fixture in registry order.
const All Target = 0

// Single targets one fixture.
func Single(id fixture.ID) Target {
	return Target(id)
}

// IsAll reports whether t selects every fixture.
func (t Target) IsAll() bool {
	return t == All
}

func (t Target) String() string {
	if t.IsAll() {
		return "all"
	}
	return strconv.Itoa(int(t))
}

// ParseTarget accepts "all" or a fixture id.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return All, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.Wrapf(ErrInvalidSelection, "%q", s)
	}
	return Target(n), nil
}

// Select returns the fixtures for target in registry order.
func Select(target Target) ([]fixture.Fixture, error) {
	if target.IsAll() {
		return fixture.All(), nil
	}
	id := fixture.ID(target)
	if !fixture.Valid(id) {
		return nil, errors.Wrapf(ErrInvalidSelection, "fixture %d (valid: %s)", id, validList())
	}
	f, err := fixture.Get(id)
	if err != nil {
		return nil, err
	}
	return []fixture.Fixture{f}, nil
}

func validList() string {
	ids := fixture.IDs()
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(int(id)))
	}
	return strings.Join(parts, ", ")
}
