// Package localdev is a reference blockdev.Device that maps the
// contract onto a host directory tree. It is not a FAT32 parser: FAT32
// semantics (8.3 names, cluster chains) are explicitly out of scope
// for this server (spec.md §1). localdev exists so the protocol
// engine, FS mapper, and handlers can be developed and tested without
// real SD card hardware, the same way the teacher's styxfile package
// lets a styx server be backed by an *os.File without knowing what
// filesystem it lives on.
package localdev

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev"
)

// Device roots a blockdev.Device at a directory on the host
// filesystem. Paths passed to its methods are 9P-absolute ("/",
// "/dir/file"); Device joins them onto Root.
type Device struct {
	Root string

	mu      sync.Mutex
	ready   bool
	clusterOf map[string]uint32 // synthetic starting-cluster allocation, keyed by host path
	nextClus  uint32
}

// New creates a Device rooted at root, which must already exist and
// be a directory.
func New(root string) (*Device, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, errors.New("localdev: root is not a directory")
	}
	return &Device{
		Root:      root,
		ready:     true,
		clusterOf: make(map[string]uint32),
		nextClus:  2, // FAT32's data area starts at cluster 2
	}, nil
}

func (d *Device) hostPath(p string) string {
	return filepath.Join(d.Root, filepath.FromSlash(p))
}

// clusterFor returns a stable synthetic "starting cluster" for a host
// path, allocating a new one on first use. Real FAT32 ties this number
// to where a file's data actually lives; since localdev stores bytes
// in ordinary host files, it only needs the number to be stable and
// unique per path for the lifetime of the process, which is all Qid
// synthesis (§3 of the spec) requires.
func (d *Device) clusterFor(hostPath string) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.clusterOf[hostPath]; ok {
		return c
	}
	c := d.nextClus
	d.nextClus++
	d.clusterOf[hostPath] = c
	return c
}

func (d *Device) attr(hostPath string, fi os.FileInfo) blockdev.Attr {
	return blockdev.Attr{
		IsDir:        fi.IsDir(),
		ReadOnly:     fi.Mode()&0200 == 0,
		Size:         uint64(fi.Size()),
		ModTime:      fi.ModTime(),
		HasAccess:    false,
		StartCluster: d.clusterFor(hostPath),
		DirentOffset: 0,
	}
}

func (d *Device) Ready() bool { return d.ready }

func (d *Device) Stat(path string) (blockdev.Attr, error) {
	hp := d.hostPath(path)
	fi, err := os.Lstat(hp)
	if err != nil {
		return blockdev.Attr{}, translateOSErr(err)
	}
	return d.attr(hp, fi), nil
}

func (d *Device) Open(path string, mode blockdev.OpenMode) (blockdev.File, error) {
	hp := d.hostPath(path)
	fi, err := os.Stat(hp)
	if err != nil {
		return nil, translateOSErr(err)
	}
	if fi.IsDir() {
		return &dirAsFile{}, nil
	}
	flags := os.O_RDONLY
	switch {
	case mode.Read && mode.Write:
		flags = os.O_RDWR
	case mode.Write:
		flags = os.O_WRONLY
	}
	if mode.Truncate {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(hp, flags, 0)
	if err != nil {
		return nil, translateOSErr(err)
	}
	return &file{f: f, dev: d, hostPath: hp}, nil
}

func (d *Device) Create(path string, perm uint32, mode blockdev.OpenMode) (blockdev.File, error) {
	hp := d.hostPath(path)
	flags := os.O_CREATE | os.O_EXCL | os.O_RDWR
	f, err := os.OpenFile(hp, flags, os.FileMode(perm&0777)|0600)
	if err != nil {
		return nil, translateOSErr(err)
	}
	return &file{f: f, dev: d, hostPath: hp}, nil
}

func (d *Device) Mkdir(path string, perm uint32) error {
	hp := d.hostPath(path)
	if err := os.Mkdir(hp, os.FileMode(perm&0777)|0700); err != nil {
		return translateOSErr(err)
	}
	return nil
}

func (d *Device) Remove(path string) error {
	hp := d.hostPath(path)
	if err := os.Remove(hp); err != nil {
		return translateOSErr(err)
	}
	d.mu.Lock()
	delete(d.clusterOf, hp)
	d.mu.Unlock()
	return nil
}

func (d *Device) Rename(oldpath, newpath string) error {
	oldhp, newhp := d.hostPath(oldpath), d.hostPath(newpath)
	if err := os.Rename(oldhp, newhp); err != nil {
		return translateOSErr(err)
	}
	d.mu.Lock()
	if c, ok := d.clusterOf[oldhp]; ok {
		d.clusterOf[newhp] = c
		delete(d.clusterOf, oldhp)
	}
	d.mu.Unlock()
	return nil
}

// SetReadOnly implements blockdev.AttrSetter by clearing every write
// bit of the host file (readOnly) or setting its owner-write bit
// (!readOnly), the closest host-filesystem analogue of FAT32's single
// read-only attribute bit.
func (d *Device) SetReadOnly(path string, readOnly bool) error {
	hp := d.hostPath(path)
	fi, err := os.Stat(hp)
	if err != nil {
		return translateOSErr(err)
	}
	mode := fi.Mode()
	if readOnly {
		mode &^= 0222
	} else {
		mode |= 0200
	}
	return translateOSErr(os.Chmod(hp, mode))
}

// SetModTime implements blockdev.AttrSetter via os.Chtimes, leaving the
// access time untouched.
func (d *Device) SetModTime(path string, mtime time.Time) error {
	hp := d.hostPath(path)
	if _, err := os.Stat(hp); err != nil {
		return translateOSErr(err)
	}
	// A zero atime makes os.Chtimes leave the access time as it is.
	return translateOSErr(os.Chtimes(hp, time.Time{}, mtime))
}

func (d *Device) OpenDir(path string) (blockdev.Dir, error) {
	hp := d.hostPath(path)
	f, err := os.Open(hp)
	if err != nil {
		return nil, translateOSErr(err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, translateOSErr(err)
	}
	if !fi.IsDir() {
		f.Close()
		return nil, blockdev.ErrNotDir
	}
	return &dir{f: f, dev: d, hostPath: hp}, nil
}

type file struct {
	f        *os.File
	dev      *Device
	hostPath string
}

func (fl *file) ReadAt(p []byte, offset int64) (int, error) {
	n, err := fl.f.ReadAt(p, offset)
	if err == io.EOF {
		err = nil
	}
	return n, translateOSErr(err)
}

func (fl *file) WriteAt(p []byte, offset int64) (int, error) {
	n, err := fl.f.WriteAt(p, offset)
	return n, translateOSErr(err)
}

func (fl *file) Truncate(size uint64) error {
	return translateOSErr(fl.f.Truncate(int64(size)))
}

func (fl *file) Stat() (blockdev.Attr, error) {
	fi, err := fl.f.Stat()
	if err != nil {
		return blockdev.Attr{}, translateOSErr(err)
	}
	return fl.dev.attr(fl.hostPath, fi), nil
}

func (fl *file) Close() error {
	return translateOSErr(fl.f.Close())
}

// dirAsFile lets Topen succeed in read mode on a directory FID without
// offering any data of its own; directory contents are served via Dir,
// obtained separately through OpenDir by the FS mapper.
type dirAsFile struct{}

func (dirAsFile) ReadAt(p []byte, offset int64) (int, error)  { return 0, io.EOF }
func (dirAsFile) WriteAt(p []byte, offset int64) (int, error) { return 0, blockdev.ErrIsDir }
func (dirAsFile) Truncate(size uint64) error                  { return blockdev.ErrIsDir }
func (dirAsFile) Stat() (blockdev.Attr, error)                { return blockdev.Attr{IsDir: true}, nil }
func (dirAsFile) Close() error                                { return nil }

type dir struct {
	f        *os.File
	dev      *Device
	hostPath string
	entries  []os.FileInfo
	pos      int
	loaded   bool
}

func (d *dir) Next() (blockdev.DirEntry, bool, error) {
	if !d.loaded {
		entries, err := d.f.Readdir(-1)
		if err != nil {
			return blockdev.DirEntry{}, false, translateOSErr(err)
		}
		d.entries = entries
		d.loaded = true
	}
	if d.pos >= len(d.entries) {
		return blockdev.DirEntry{}, false, nil
	}
	fi := d.entries[d.pos]
	d.pos++
	hp := filepath.Join(d.hostPath, fi.Name())
	return blockdev.DirEntry{Name: fi.Name(), Attr: d.dev.attr(hp, fi)}, true, nil
}

func (d *dir) Close() error {
	return translateOSErr(d.f.Close())
}

func translateOSErr(err error) error {
	switch {
	case err == nil:
		return nil
	case os.IsNotExist(err):
		return blockdev.ErrNotFound
	case os.IsPermission(err):
		return blockdev.ErrPermission
	case os.IsExist(err):
		return blockdev.ErrExists
	}
	return err
}
