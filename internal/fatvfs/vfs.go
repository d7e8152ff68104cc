package fatvfs

import (
	"time"

	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev"
	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

// VFS maps 9P path operations onto a locked block device, translating
// results into proto9p Qids, Stats, and the server's fixed error
// strings. One VFS is shared by every session attached to the same
// tree; all state that varies per client (the open-fid table, walk
// cursors) lives above this package, in the session layer.
type VFS struct {
	Dev *blockdev.Locked
}

// New creates a VFS backed by dev.
func New(dev *blockdev.Locked) *VFS {
	return &VFS{Dev: dev}
}

// Stat resolves path and returns its Stat record.
func (v *VFS) Stat(path string) (proto9p.Stat, error) {
	attr, err := v.Dev.Stat(path)
	if err != nil {
		return proto9p.Stat{}, err
	}
	return StatFromAttr(path, attr), nil
}

// Step resolves a single walk component: base joined with name, stat'd
// to confirm it exists. It is the unit of work Twalk repeats once per
// requested name (spec §4.6.4): each step must succeed on its own
// before the next is attempted, and the walk stops at the first
// failing step rather than failing the whole request.
func (v *VFS) Step(base, name string) (path string, qid proto9p.Qid, err error) {
	path, err = Join(base, name)
	if err != nil {
		return "", proto9p.Qid{}, err
	}
	attr, err := v.Dev.Stat(path)
	if err != nil {
		return "", proto9p.Qid{}, err
	}
	return path, QidFromAttr(attr), nil
}

// OpenFile opens the regular file at path.
func (v *VFS) OpenFile(path string, mode blockdev.OpenMode) (blockdev.File, error) {
	return v.Dev.Open(path, mode)
}

// CreateFile creates a new file or directory at parent/name, per
// Tcreate's perm.DMDIR bit (spec §4.6.5), and returns it open along
// with its freshly synthesized Qid. The create and the follow-up stat
// used to build the Qid happen under one lock acquisition so the
// object can't be renamed or removed by the other core in between.
func (v *VFS) CreateFile(parent, name string, perm uint32, mode blockdev.OpenMode) (f blockdev.File, qid proto9p.Qid, err error) {
	path, jerr := Join(parent, name)
	if jerr != nil {
		return nil, proto9p.Qid{}, jerr
	}
	werr := v.Dev.WithLock(func(dev blockdev.Device) error {
		if perm&proto9p.DMDIR != 0 {
			if err := dev.Mkdir(path, perm); err != nil {
				return err
			}
			f = directoryPlaceholder{}
		} else {
			var cerr error
			f, cerr = dev.Create(path, perm, mode)
			if cerr != nil {
				return cerr
			}
		}
		attr, serr := dev.Stat(path)
		if serr != nil {
			if f != nil {
				f.Close()
			}
			dev.Remove(path)
			return serr
		}
		qid = QidFromAttr(attr)
		return nil
	})
	if werr != nil {
		return nil, proto9p.Qid{}, werr
	}
	return f, qid, nil
}

// directoryPlaceholder stands in for the blockdev.File of a just-Mkdir'd
// directory: Tcreate must return an open fid, but a directory fid is
// never read or written as a file, only as a directory stream opened
// separately via OpenDirStream.
type directoryPlaceholder struct{}

func (directoryPlaceholder) ReadAt(p []byte, offset int64) (int, error)  { return 0, blockdev.ErrIsDir }
func (directoryPlaceholder) WriteAt(p []byte, offset int64) (int, error) { return 0, blockdev.ErrIsDir }
func (directoryPlaceholder) Truncate(size uint64) error                  { return blockdev.ErrIsDir }
func (directoryPlaceholder) Stat() (blockdev.Attr, error)                { return blockdev.Attr{IsDir: true}, nil }
func (directoryPlaceholder) Close() error                                { return nil }

// Remove removes the file or empty directory at path.
func (v *VFS) Remove(path string) error {
	return v.Dev.Remove(path)
}

// Truncate shrinks the regular file at path to size bytes, per the
// Wstat length mutation (spec §4.6.12). It opens the file itself
// rather than requiring an already-open fid, since Wstat may target a
// fid that was never Topen'd.
func (v *VFS) Truncate(path string, size uint64) error {
	f, err := v.Dev.Open(path, blockdev.OpenMode{Write: true})
	if err != nil {
		return err
	}
	defer v.Dev.Close(f)
	return v.Dev.Truncate(f, size)
}

// SetReadOnly toggles the read-only attribute at path, if the backing
// Device supports it; otherwise it is a silent no-op, per spec §9's
// Wstat mtime/mode allowance.
func (v *VFS) SetReadOnly(path string, readOnly bool) error {
	return v.Dev.WithLock(func(dev blockdev.Device) error {
		as, ok := dev.(blockdev.AttrSetter)
		if !ok {
			return nil
		}
		return as.SetReadOnly(path, readOnly)
	})
}

// SetModTime updates path's modification time, if the backing Device
// supports it; otherwise a silent no-op.
func (v *VFS) SetModTime(path string, mtime time.Time) error {
	return v.Dev.WithLock(func(dev blockdev.Device) error {
		as, ok := dev.(blockdev.AttrSetter)
		if !ok {
			return nil
		}
		return as.SetModTime(path, mtime)
	})
}

// WstatRename renames path so its final component becomes newName,
// leaving it in the same directory; spec §4.6.10 restricts Twstat
// renames to within the current parent, never a move across
// directories.
func (v *VFS) WstatRename(path, newName string) (string, error) {
	newPath, err := Join(Parent(path), newName)
	if err != nil {
		return "", err
	}
	if err := v.Dev.Rename(path, newPath); err != nil {
		return "", err
	}
	return newPath, nil
}
