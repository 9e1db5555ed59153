// Package diff renders line-based differences between two strings in
// unified form. Context lines are written as they are; removed lines are
// prefixed with "-" and added lines with "+".
package diff

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// ContextLines is the number of unchanged lines kept around each change.
const ContextLines = 3

// Op marks how a line takes part in the diff.
type Op byte

const (
	Equal  Op = ' '
	Delete Op = '-'
	Insert Op = '+'
)

// Line is one line of a diff.
type Line struct {
	Op   Op
	Text string
}

func (l Line) String() string {
	if l.Op == Equal {
		return l.Text
	}
	return string(l.Op) + l.Text
}

// Lines returns the full line-level edit script from expected to actual.
func Lines(expected, actual string) []Line {
	a, b := split(expected), split(actual)
	var out []Line
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		out = append(out, opLines(op, a, b)...)
	}
	return out
}

// HasChanges reports whether lines contain an insertion or deletion.
func HasChanges(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

// Unified renders the diff from expected to actual with "--- Expected" and
// "+++ Actual" headers and one "@@" header per hunk. Identical inputs
// produce an empty string.
func Unified(expected, actual string) string {
	a, b := split(expected), split(actual)
	groups := difflib.NewMatcher(a, b).GetGroupedOpCodes(ContextLines)
	if len(groups) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("--- Expected\n+++ Actual\n")
	for _, group := range groups {
		first, last := group[0], group[len(group)-1]
		fmt.Fprintf(&buf, "@@ -%s +%s @@\n", hunkRange(first.I1, last.I2), hunkRange(first.J1, last.J2))
		for _, op := range group {
			for _, l := range opLines(op, a, b) {
				buf.WriteString(l.String())
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Colorize paints a rendered diff for a terminal: removals red, additions
// green, headers cyan. It honors color.NoColor.
func Colorize(unified string) string {
	if unified == "" {
		return ""
	}
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	lines := strings.Split(unified, "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "--- "), strings.HasPrefix(l, "+++ "), strings.HasPrefix(l, "@@"):
			lines[i] = cyan(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = red(l)
		case strings.HasPrefix(l, "+"):
			lines[i] = green(l)
		}
	}
	return strings.Join(lines, "\n")
}

func opLines(op difflib.OpCode, a, b []string) []Line {
	var out []Line
	switch op.Tag {
	case 'e':
		for _, t := range a[op.I1:op.I2] {
			out = append(out, Line{Op: Equal, Text: t})
		}
	case 'd':
		for _, t := range a[op.I1:op.I2] {
			out = append(out, Line{Op: Delete, Text: t})
		}
	case 'i':
		for _, t := range b[op.J1:op.J2] {
			out = append(out, Line{Op: Insert, Text: t})
		}
	case 'r':
		for _, t := range a[op.I1:op.I2] {
			out = append(out, Line{Op: Delete, Text: t})
		}
		for _, t := range b[op.J1:op.J2] {
			out = append(out, Line{Op: Insert, Text: t})
		}
	}
	return out
}

// split breaks s on newlines. A trailing newline ends the last line rather
// than starting an empty one.
func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func hunkRange(start, stop int) string {
	begin := start + 1
	length := stop - start
	if length == 1 {
		return fmt.Sprintf("%d", begin)
	}
	if length == 0 {
		begin--
	}
	return fmt.Sprintf("%d,%d", begin, length)
}
