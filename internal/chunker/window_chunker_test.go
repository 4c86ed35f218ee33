package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Empty(t *testing.T) {
	c := NewWindowChunker(1000, 200)
	assert.Nil(t, c.Split(""))
}

func TestSplit_ShortTextSingleSegment(t *testing.T) {
	c := NewWindowChunker(1000, 200)
	segs := c.Split("hello world")
	require.Len(t, segs, 1)
	assert.Equal(t, "hello world", segs[0].Text)
	assert.Equal(t, 0, segs[0].Start)
}

func TestSplit_LengthBound(t *testing.T) {
	c := NewWindowChunker(100, 20)
	text := strings.Repeat("abcde ", 200)
	for _, seg := range c.Split(text) {
		assert.LessOrEqual(t, len([]rune(seg.Text)), 100)
	}
}

func TestSplit_OverlapInvariant(t *testing.T) {
	// The trailing overlap runes of each window match the leading runes of
	// the next window.
	c := NewWindowChunker(100, 20)
	text := strings.Repeat("0123456789", 55)
	segs := c.Split(text)
	require.Greater(t, len(segs), 1)
	for i := 1; i < len(segs); i++ {
		prev := []rune(segs[i-1].Text)
		cur := []rune(segs[i].Text)
		n := 20
		if len(cur) < n {
			n = len(cur)
		}
		tail := prev[len(prev)-20 : len(prev)-20+n]
		assert.Equal(t, string(tail), string(cur[:n]))
		assert.Equal(t, segs[i-1].Start+80, segs[i].Start)
	}
}

func TestSplit_CoversWholeText(t *testing.T) {
	c := NewWindowChunker(50, 10)
	text := strings.Repeat("x", 137)
	segs := c.Split(text)
	last := segs[len(segs)-1]
	assert.Equal(t, 137, last.Start+len([]rune(last.Text)))
}

func TestSplit_MultibyteRunes(t *testing.T) {
	// Vietnamese text must be split on rune boundaries, not bytes.
	c := NewWindowChunker(10, 2)
	text := strings.Repeat("lịch trình ", 10)
	runes := []rune(text)
	for _, seg := range c.Split(text) {
		segRunes := []rune(seg.Text)
		assert.LessOrEqual(t, len(segRunes), 10)
		assert.Equal(t, string(runes[seg.Start:seg.Start+len(segRunes)]), seg.Text)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("  a\t\tb \n\n c  "))
	assert.Equal(t, "", Normalize(" \n\t "))
	assert.NotContains(t, Normalize("x   y"), "  ")
}

func TestNewWindowChunker_Guards(t *testing.T) {
	c := NewWindowChunker(0, -1)
	assert.Equal(t, 1000, c.Size())
	assert.Equal(t, 0, c.Overlap())

	// Overlap >= size would never advance; clamp it.
	c = NewWindowChunker(10, 10)
	assert.Equal(t, 5, c.Overlap())
}
