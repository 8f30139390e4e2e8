// Package planlog adapts the planner's Logger collaborator onto the
// standard library's log package, the only logging dependency anywhere
// in the example pack this planner descends from.
package planlog

import (
	"fmt"
	"log"
	"sort"
)

// StdLogger writes plan.Logger messages through a *log.Logger, formatting
// fields as sorted key=value pairs so output is deterministic for tests
// that capture it.
type StdLogger struct {
	out   *log.Logger
	level int
}

// New returns a StdLogger writing through l, emitting only messages at or
// below level (0 is silent).
func New(l *log.Logger, level int) *StdLogger {
	return &StdLogger{out: l, level: level}
}

// Log implements plan.Logger.
func (s *StdLogger) Log(level int, msg string, fields map[string]any) {
	if s.level < level {
		return
	}
	if len(fields) == 0 {
		s.out.Printf("[plan] %s", msg)
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	line := msg
	for _, k := range keys {
		line += fmt.Sprintf(" %s=%v", k, fields[k])
	}
	s.out.Printf("[plan] %s", line)
}
