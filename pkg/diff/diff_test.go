package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare_InsertAndDelete(t *testing.T) {
	hunks, stats := Compare("hello world", "hello brave world")

	assert.NotEmpty(t, hunks)
	assert.Equal(t, len([]rune("brave ")), stats.Inserted)
	assert.Equal(t, 0, stats.Deleted)

	var inserted string
	for _, h := range hunks {
		if h.Op == "insert" {
			inserted += h.Text
		}
	}
	assert.Equal(t, "brave ", inserted)
}

func TestCompare_Identical(t *testing.T) {
	hunks, stats := Compare("same", "same")

	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, 0, stats.Deleted)
	assert.Len(t, hunks, 1)
	assert.Equal(t, "equal", hunks[0].Op)
}

func TestCompare_Unicode(t *testing.T) {
	_, stats := Compare("笔记内容", "笔记的内容")

	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 0, stats.Deleted)
}
