package linediff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_ReplaceMiddle(t *testing.T) {
	ops := Compute("A\nB\nC\n", "A\nX\nC\n")

	rendered := Render(ops, RenderOptions{ContextSize: 1})
	exp := "@@ -1,3 +1,3 @@\n A\n-X\n+B\n C"
	assert.Equal(t, exp, rendered)
}

func TestRender_Headers(t *testing.T) {
	ops := Compute("new\n", "old\n")

	rendered := Render(ops, RenderOptions{ContextSize: 3, CurrentName: "b.txt", PreviousName: "a.txt"})
	exp := "--- a.txt\n+++ b.txt\n@@ -1,1 +1,1 @@\n-old\n+new"
	assert.Equal(t, exp, rendered)
}

func TestRender_Color(t *testing.T) {
	ops := Compute("a\nb\n", "a\n")

	rendered := Render(ops, RenderOptions{Color: true})
	exp := "\x1b[35m@@ -2,0 +2,1 @@\x1b[0m\n\x1b[32m+b\x1b[0m"
	assert.Equal(t, exp, rendered)
}

func TestRender_Groups(t *testing.T) {
	previous := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n"
	current := "1\nTWO\n3\n4\n5\n6\n7\n8\nNINE\n10\n"
	ops := Compute(current, previous)

	// Far-apart changes produce two groups:
	rendered := Render(ops, RenderOptions{ContextSize: 1})
	exp := "@@ -1,3 +1,3 @@\n 1\n-2\n+TWO\n 3\n@@ -8,3 +8,3 @@\n 8\n-9\n+NINE\n 10"
	assert.Equal(t, exp, rendered)

	// A large context would bridge the gap into one group:
	rendered = Render(ops, RenderOptions{ContextSize: 3})
	exp = "@@ -1,10 +1,10 @@\n 1\n-2\n+TWO\n 3\n 4\n 5\n 6\n 7\n 8\n-9\n+NINE\n 10"
	assert.Equal(t, exp, rendered)
}

func TestRender_NoChanges(t *testing.T) {
	assert.Equal(t, "", Render(Compute("a\n", "a\n"), RenderOptions{ContextSize: 3}))
}
