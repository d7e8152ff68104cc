// Package blockdev defines the contract between the 9P protocol engine
// and the FAT32 block device driver, and provides the single
// process-wide lock (the FS Lock, component C1 of the spec) that
// serializes access to it across the networking core and the
// unrelated workload sharing the same SD card.
//
// The FAT32 driver itself — the code that actually walks a cluster
// chain on the SD card — is explicitly out of scope (spec.md §1); this
// package only specifies, and (in localdev) provides one reference
// instance of, the thread-safe wrapper contract the driver must
// satisfy.
package blockdev

import "time"

// OpenMode selects the access mode for Device.Open and Device.Create,
// mirroring the base mode bits of a 9P Topen/Tcreate request (read,
// write, read-write, or execute) plus the truncate-on-open modifier.
type OpenMode struct {
	Write    bool
	Read     bool
	Truncate bool
}

// Attr describes one filesystem object: a FAT32 directory entry's
// attribute byte, size, timestamps, and the identity fields the 9P
// mapper needs to synthesize a stable Qid.
type Attr struct {
	IsDir        bool
	ReadOnly     bool
	Size         uint64
	ModTime      time.Time
	AccessTime   time.Time // zero if the driver does not track atime
	HasAccess    bool      // whether AccessTime is meaningful
	StartCluster uint32
	DirentOffset uint32
}

// File is an open regular file handle.
type File interface {
	ReadAt(p []byte, offset int64) (n int, err error)
	WriteAt(p []byte, offset int64) (n int, err error)
	Truncate(size uint64) error
	Stat() (Attr, error)
	Close() error
}

// DirEntry is one entry returned while iterating a directory, just
// enough information to synthesize a Qid and a Stat without a further
// round trip to the device.
type DirEntry struct {
	Name string
	Attr Attr
}

// Dir is an open directory handle. Next returns io.EOF-equivalent by
// returning ok=false once all entries have been produced; it must be
// safe to call repeatedly on an exhausted Dir (always returning
// ok=false) since clients may re-read a directory at its last offset.
type Dir interface {
	Next() (entry DirEntry, ok bool, err error)
	Close() error
}

// Device is the thread-safe contract the FAT32 driver presents to the
// rest of this server. Every method performs exactly one logical
// block-device operation and must be called while holding the Lock
// it is paired with in a Locked — see locked.go and lock.go.
type Device interface {
	Open(path string, mode OpenMode) (File, error)
	Create(path string, perm uint32, mode OpenMode) (File, error)
	Mkdir(path string, perm uint32) error
	Remove(path string) error
	Rename(oldpath, newpath string) error
	Stat(path string) (Attr, error)
	OpenDir(path string) (Dir, error)

	// Ready reports whether the underlying block device is mounted and
	// usable. It does not require the Lock.
	Ready() bool
}

// AttrSetter is an optional capability a Device may implement to honor
// Twstat's mode and mtime mutations (spec §4.6.12). A Device that does
// not implement it simply has those Wstat fields silently ignored,
// per the spec's explicit allowance for backends that can't update
// them.
type AttrSetter interface {
	SetReadOnly(path string, readOnly bool) error
	SetModTime(path string, mtime time.Time) error
}
