package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	// ContextLines is the number of unchanged lines shown around each change.
	ContextLines    = 3
	maxDiffLines    = 10000
	truncateMessage = "... (diff truncated, exceeds 10,000 lines) ..."
)

type op struct {
	kind byte
	text string
}

// Unified generates a line-oriented unified diff comparing expected and actual content.
// Returns an empty string if the content is identical. Diffs exceeding 10,000 lines are
// truncated with a marker.
func Unified(expected, actual []byte, expectedLabel, actualLabel string) string {
	if bytes.Equal(expected, actual) {
		return ""
	}

	ops := lineOps(string(expected), string(actual))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n", expectedLabel)
	fmt.Fprintf(&buf, "+++ %s\n", actualLabel)

	// Line numbers before each op, 0-based.
	oldNo := make([]int, len(ops)+1)
	newNo := make([]int, len(ops)+1)
	for i, o := range ops {
		oldNo[i+1], newNo[i+1] = oldNo[i], newNo[i]
		if o.kind != '+' {
			oldNo[i+1]++
		}
		if o.kind != '-' {
			newNo[i+1]++
		}
	}

	for _, h := range hunks(ops) {
		oldCount := oldNo[h[1]] - oldNo[h[0]]
		newCount := newNo[h[1]] - newNo[h[0]]
		fmt.Fprintf(&buf, "@@ -%s +%s @@\n", hunkRange(oldNo[h[0]], oldCount), hunkRange(newNo[h[0]], newCount))
		for _, o := range ops[h[0]:h[1]] {
			buf.WriteByte(o.kind)
			buf.WriteString(o.text)
			buf.WriteByte('\n')
		}
	}

	result := buf.String()
	lines := strings.Split(result, "\n")
	if len(lines) > maxDiffLines {
		truncated := strings.Join(lines[:maxDiffLines], "\n")
		return truncated + "\n" + truncateMessage + "\n"
	}
	return result
}

// lineOps diffs whole lines by mapping each distinct line to one rune first.
func lineOps(expected, actual string) []op {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var ops []op
	for _, d := range diffs {
		kind := byte(' ')
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			kind = '-'
		case diffmatchpatch.DiffInsert:
			kind = '+'
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			ops = append(ops, op{kind: kind, text: strings.TrimSuffix(line, "\n")})
		}
	}
	return ops
}

// hunks groups changed ops with their context into [start, end) ranges.
func hunks(ops []op) [][2]int {
	var out [][2]int
	for i := 0; i < len(ops); i++ {
		if ops[i].kind == ' ' {
			continue
		}
		start := max(0, i-ContextLines)
		end := i + 1
		for j := i + 1; j < len(ops) && j <= end+2*ContextLines-1; j++ {
			if ops[j].kind != ' ' {
				end = j + 1
			}
		}
		end = min(len(ops), end+ContextLines)
		if n := len(out); n > 0 && start <= out[n-1][1] {
			out[n-1][1] = end
		} else {
			out = append(out, [2]int{start, end})
		}
		i = end - 1
	}
	return out
}

func hunkRange(before, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", before)
	}
	return fmt.Sprintf("%d,%d", before+1, count)
}
