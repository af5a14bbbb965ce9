// Package flags holds the console's feature flags. A Registry is built once
// from configuration and is read-only afterwards; unknown flags read as off.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/lineconsole/internal/log"
)

const (
	// FlagTraceKeys logs every raw key event and the action it produced.
	FlagTraceKeys = "trace-keys"

	// FlagStripANSI removes ANSI escape sequences from written text before
	// it reaches the buffer.
	FlagStripANSI = "strip-ansi"
)

// Known lists the flags the console understands, with a short description
// used by `lineconsole --help` and the default config template.
var Known = map[string]string{
	FlagTraceKeys: "log raw key events and their normalized action",
	FlagStripANSI: "strip ANSI escape sequences from written text",
}

// Registry is a read-only set of flag values.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map. The map is copied.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(flags))}
	maps.Copy(r.flags, flags)

	for name := range r.flags {
		if _, ok := Known[name]; !ok {
			log.Warn(log.CatConfig, "unrecognized feature flag", "flag", name)
		}
	}
	log.Debug(log.CatConfig, "feature flags loaded", "count", len(r.flags), "enabled", r.EnabledNames())
	return r
}

// Enabled reports whether name is on. Nil registries and unknown flags
// report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// EnabledNames returns the names of the flags that are on, sorted.
func (r *Registry) EnabledNames() []string {
	if r == nil {
		return nil
	}
	var names []string
	for name, on := range r.flags {
		if on {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// All returns a copy of every configured flag.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}
