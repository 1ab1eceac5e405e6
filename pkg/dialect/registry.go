package dialect

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/ansijoin/pkg/token"
)

var (
	// ErrDialectRequired is returned by Lookup for an empty name.
	ErrDialectRequired = errors.New("dialect is required")
	// ErrUnknownDialect is returned by Lookup for names nobody registered.
	ErrUnknownDialect = errors.New("unknown dialect")
)

var registry = struct {
	sync.RWMutex
	dialects map[string]*Dialect
	// clauses holds every clause token of every dialect, so the parser can
	// tell "LIMIT is not valid in oracle" apart from a syntax error.
	clauses map[token.TokenType]string
}{
	dialects: make(map[string]*Dialect),
	clauses:  make(map[token.TokenType]string),
}

// Register adds d under its lower-cased name. Dialect packages call it from init.
func Register(d *Dialect) {
	registry.Lock()
	defer registry.Unlock()
	registry.dialects[strings.ToLower(d.Name)] = d
}

// Get returns the dialect registered under name, ignoring case.
func Get(name string) (*Dialect, bool) {
	registry.RLock()
	defer registry.RUnlock()
	d, ok := registry.dialects[strings.ToLower(name)]
	return d, ok
}

// Lookup is Get with an error naming the registered dialects.
func Lookup(name string) (*Dialect, error) {
	if name == "" {
		return nil, ErrDialectRequired
	}
	d, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownDialect, name, strings.Join(List(), ", "))
	}
	return d, nil
}

// List returns the registered dialect names, sorted.
func List() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.dialects))
	for name := range registry.dialects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func registerClause(t token.TokenType) {
	registry.Lock()
	defer registry.Unlock()
	registry.clauses[t] = t.String()
}

// IsKnownClause reports whether any registered dialect uses t as a clause
// keyword, and returns the clause name.
func IsKnownClause(t token.TokenType) (string, bool) {
	registry.RLock()
	defer registry.RUnlock()
	name, ok := registry.clauses[t]
	return name, ok
}
