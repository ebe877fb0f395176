package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnifiedIdenticalContent(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", Unified([]byte("a\nb\n"), []byte("a\nb\n"), "expected", "actual"))
}

func TestUnifiedSingleLineChange(t *testing.T) {
	t.Parallel()

	got := Unified([]byte("line1\nline2\nline3\n"), []byte("line1\nmodified\nline3\n"), "preview.js", "compiled")

	want := "--- preview.js\n" +
		"+++ compiled\n" +
		"@@ -1,3 +1,3 @@\n" +
		" line1\n" +
		"-line2\n" +
		"+modified\n" +
		" line3\n"
	require.Equal(t, want, got)
}

func TestUnifiedSeparatesDistantHunks(t *testing.T) {
	t.Parallel()

	var expected, actual []string
	for i := 0; i < 20; i++ {
		line := "proc" + string(rune('a'+i))
		expected = append(expected, line)
		switch i {
		case 1, 17:
			actual = append(actual, strings.ToUpper(line))
		default:
			actual = append(actual, line)
		}
	}

	got := Unified([]byte(strings.Join(expected, "\n")+"\n"), []byte(strings.Join(actual, "\n")+"\n"), "a", "b")

	require.Equal(t, 2, strings.Count(got, "@@ -"))
	require.Contains(t, got, "@@ -1,5 +1,5 @@\n")
	require.Contains(t, got, "@@ -15,6 +15,6 @@\n")
	require.Contains(t, got, "-procb\n+PROCB\n")
	require.NotContains(t, got, " procj\n")
}

func TestUnifiedEmptySides(t *testing.T) {
	t.Parallel()

	got := Unified(nil, []byte("new content\n"), "old", "new")
	require.Contains(t, got, "@@ -0,0 +1,1 @@\n+new content\n")

	got = Unified([]byte("gone\n"), nil, "old", "new")
	require.Contains(t, got, "@@ -1,1 +0,0 @@\n-gone\n")
}

func TestUnifiedTruncation(t *testing.T) {
	t.Parallel()

	var expected, actual []string
	for i := 0; i < 11000; i++ {
		expected = append(expected, "expected line")
		if i%2 == 0 {
			actual = append(actual, "actual line")
		} else {
			actual = append(actual, "expected line")
		}
	}

	got := Unified([]byte(strings.Join(expected, "\n")), []byte(strings.Join(actual, "\n")), "expected", "actual")

	require.Contains(t, got, "truncated")
	require.LessOrEqual(t, strings.Count(got, "\n"), maxDiffLines+1)
}
