package diag

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// List collects errors from a best-effort pass over a script. The core
// lexer and parser stop at the first error; only recovery layers build
// lists.
type List []*Error

// Add appends err to the list. Errors that are not *Error are ignored;
// callers only ever hand it lexer and parser errors.
func (l *List) Add(err error) {
	var e *Error
	if errors.As(err, &e) {
		*l = append(*l, e)
	}
}

// Sort orders the list by source position.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Pos.Offset < l[j].Pos.Offset
	})
}

// Err returns nil for an empty list and the list itself otherwise.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:", len(l))
	for _, e := range l {
		sb.WriteString("\n\t")
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}
