// Package dialect adapts third-party SQL parsers to the parse/generate
// contract used by the verifier.
package dialect

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Default is the dialect used when none is configured.
const Default = "postgres"

// ErrUnknownDialect is returned by Lookup for unregistered names.
var ErrUnknownDialect = errors.New("unknown dialect")

// Dialect parses SQL text into a Tree.
type Dialect interface {
	Name() string
	Parse(sql string) (Tree, error)
}

// Tree is a parsed statement list that can be rendered back to SQL.
type Tree interface {
	// String renders the syntax tree for humans.
	String() string
	// SQL generates SQL text from the tree.
	SQL() (string, error)
}

var registry = map[string]func() Dialect{
	"postgres": func() Dialect { return Postgres{} },
	"mysql":    func() Dialect { return TiDB{name: "mysql"} },
	"tidb":     func() Dialect { return TiDB{name: "tidb"} },
}

// Lookup returns the dialect registered under name (case-insensitive).
func Lookup(name string) (Dialect, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = Default
	}
	ctor, ok := registry[key]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDialect, "%q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists registered dialect names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
