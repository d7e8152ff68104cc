package localdev

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev"
)

func TestCreateWriteReadStat(t *testing.T) {
	dev, err := New(t.TempDir())
	require.NoError(t, err)

	f, err := dev.Create("/hello.txt", 0644, blockdev.OpenMode{Read: true, Write: true})
	require.NoError(t, err)

	n, err := f.WriteAt([]byte("hello"), 0)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.NoError(t, f.Close())

	attr, err := dev.Stat("/hello.txt")
	require.NoError(t, err)
	require.Equal(t, uint64(5), attr.Size)
	require.False(t, attr.IsDir)
}

func TestCreateExclRejectsDuplicate(t *testing.T) {
	dev, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = dev.Create("/a", 0644, blockdev.OpenMode{Write: true})
	require.NoError(t, err)

	_, err = dev.Create("/a", 0644, blockdev.OpenMode{Write: true})
	require.ErrorIs(t, err, blockdev.ErrExists)
}

func TestStatMissingIsNotFound(t *testing.T) {
	dev, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = dev.Stat("/missing")
	require.ErrorIs(t, err, blockdev.ErrNotFound)
}

func TestMkdirAndOpenDir(t *testing.T) {
	dev, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, dev.Mkdir("/sub", 0755))
	d, err := dev.OpenDir("/sub")
	require.NoError(t, err)
	defer d.Close()

	_, ok, err := d.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRenameMovesClusterIdentity(t *testing.T) {
	dev, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = dev.Create("/old", 0644, blockdev.OpenMode{Write: true})
	require.NoError(t, err)
	before, err := dev.Stat("/old")
	require.NoError(t, err)

	require.NoError(t, dev.Rename("/old", "/new"))
	after, err := dev.Stat("/new")
	require.NoError(t, err)
	require.Equal(t, before.StartCluster, after.StartCluster)
}

func TestSetReadOnlyClearsWriteBit(t *testing.T) {
	dev, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = dev.Create("/ro.txt", 0644, blockdev.OpenMode{Write: true})
	require.NoError(t, err)

	require.NoError(t, dev.SetReadOnly("/ro.txt", true))
	attr, err := dev.Stat("/ro.txt")
	require.NoError(t, err)
	require.True(t, attr.ReadOnly)
}
