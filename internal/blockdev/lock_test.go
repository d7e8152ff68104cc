package blockdev

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockDoRunsExclusively(t *testing.T) {
	l := &Lock{}
	var ran bool
	err := l.Do(func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestLockTryAcquireFailsWhileHeld(t *testing.T) {
	l := &Lock{}
	require.NoError(t, l.Acquire())
	defer l.Release()

	assert.False(t, l.TryAcquire())
}

func TestLockAcquireTimesOut(t *testing.T) {
	l := &Lock{Timeout: 10 * time.Millisecond}
	require.NoError(t, l.Acquire())
	defer l.Release()

	err := l.Acquire()
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestLockReleaseWithoutAcquirePanics(t *testing.T) {
	l := &Lock{}
	l.init()
	assert.Panics(t, func() { l.Release() })
}

func TestLockedWithLockCallsThroughWithoutDeadlock(t *testing.T) {
	dev := &fakeDevice{}
	locked := NewLocked(dev)

	err := locked.WithLock(func(d Device) error {
		_, err := d.Stat("/")
		return err
	})
	assert.NoError(t, err)
}

type fakeDevice struct{}

func (fakeDevice) Open(path string, mode OpenMode) (File, error)    { return nil, nil }
func (fakeDevice) Create(path string, perm uint32, mode OpenMode) (File, error) { return nil, nil }
func (fakeDevice) Mkdir(path string, perm uint32) error             { return nil }
func (fakeDevice) Remove(path string) error                        { return nil }
func (fakeDevice) Rename(oldpath, newpath string) error             { return nil }
func (fakeDevice) Stat(path string) (Attr, error)                   { return Attr{}, nil }
func (fakeDevice) OpenDir(path string) (Dir, error)                 { return nil, nil }
func (fakeDevice) Ready() bool                                      { return true }
