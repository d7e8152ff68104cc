package fatvfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinBasic(t *testing.T) {
	p, err := Join("/", "load81")
	assert.NoError(t, err)
	assert.Equal(t, "/load81", p)
}

func TestJoinMultipleSteps(t *testing.T) {
	p, err := Join("/", "a", "b", "c")
	assert.NoError(t, err)
	assert.Equal(t, "/a/b/c", p)
}

func TestJoinDotDotPopsElement(t *testing.T) {
	p, err := Join("/a/b", "..", "c")
	assert.NoError(t, err)
	assert.Equal(t, "/a/c", p)
}

func TestJoinDotDotPastRootStaysAtRoot(t *testing.T) {
	p, err := Join("/", "..")
	assert.NoError(t, err)
	assert.Equal(t, "/", p)
}

func TestJoinRejectsSlashInName(t *testing.T) {
	_, err := Join("/", "a/b")
	assert.ErrorIs(t, err, ErrBadName)
}

func TestJoinRejectsEmptyName(t *testing.T) {
	_, err := Join("/", "")
	assert.ErrorIs(t, err, ErrBadName)
}

func TestJoinRejectsDot(t *testing.T) {
	_, err := Join("/", ".")
	assert.ErrorIs(t, err, ErrBadName)
}

func TestJoinNoNamesReturnsBase(t *testing.T) {
	p, err := Join("/a/b")
	assert.NoError(t, err)
	assert.Equal(t, "/a/b", p)
}

func TestBaseAndParent(t *testing.T) {
	assert.Equal(t, "", Base("/"))
	assert.Equal(t, "file.txt", Base("/dir/file.txt"))
	assert.Equal(t, "/", Parent("/file.txt"))
	assert.Equal(t, "/dir", Parent("/dir/file.txt"))
}

func TestTrimPrefix(t *testing.T) {
	rest, ok := TrimPrefix("/dir/sub/file.txt", "/dir/sub")
	assert.True(t, ok)
	assert.Equal(t, "/file.txt", rest)

	_, ok = TrimPrefix("/dir/other/file.txt", "/dir/sub")
	assert.False(t, ok)
}
