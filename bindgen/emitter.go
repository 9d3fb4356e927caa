package bindgen

import (
	"fmt"
	"strings"
)

// unitEmitter accumulates one generated unit's source text. It is owned exclusively by the emission call chain for
// that unit and flushed once at the end, so no emitted text ever leaks across units.
type unitEmitter struct {
	body   strings.Builder
	indent int
}

func newUnitEmitter() *unitEmitter {
	return &unitEmitter{}
}

// line writes one indented line of source text.
func (e *unitEmitter) line(format string, args ...any) {
	if format == "" {
		e.body.WriteByte('\n')
		return
	}
	e.body.WriteString(strings.Repeat("\t", e.indent))
	if len(args) == 0 {
		e.body.WriteString(format)
	} else {
		fmt.Fprintf(&e.body, format, args...)
	}
	e.body.WriteByte('\n')
}

// blank writes an empty line.
func (e *unitEmitter) blank() {
	e.body.WriteByte('\n')
}

// push increases the indentation of subsequent lines.
func (e *unitEmitter) push() {
	e.indent++
}

// pop decreases the indentation of subsequent lines.
func (e *unitEmitter) pop() {
	if e.indent > 0 {
		e.indent--
	}
}

// String returns the accumulated source text.
func (e *unitEmitter) String() string {
	return e.body.String()
}
