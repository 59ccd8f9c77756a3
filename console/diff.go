package console

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// LineOp marks a diff line as kept, added or removed
type LineOp int

const (
	OpKeep LineOp = iota
	OpAdd
	OpRemove
)

type DiffLine struct {
	Op   LineOp
	Text string
}

// TreeDiff compares two multi-line renderings line by line.
// Returns nil when they are equal.
func TreeDiff(before, after string) []DiffLine {
	if before == after {
		return nil
	}
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []DiffLine
	for _, d := range diffs {
		op := OpKeep
		switch d.Type {
		case diffpatch.DiffInsert:
			op = OpAdd
		case diffpatch.DiffDelete:
			op = OpRemove
		}
		for _, l := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out = append(out, DiffLine{Op: op, Text: l})
		}
	}
	return out
}
