package fatvfs

import (
	"sync"

	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev"
)

// DirStream serves a directory's contents as the flat stream of
// encoded Stat records Tread expects from a directory fid (spec
// §4.6.7). Reads must be sequential: offset must equal 0 on the first
// read and the end position of the previous read after that (a read
// at 0 once the stream has advanced is rejected), and a Stat record is never split
// across two Read calls — a client whose buffer is too small for the
// next entry gets a zero-length read rather than a truncated one.
type DirStream struct {
	mu   sync.Mutex
	vfs  *VFS
	base string
	dir  blockdev.Dir

	offset  uint64
	pending []byte
	closed  bool
}

// OpenDirStream opens path as a directory and returns a stream over its
// entries, in the order the underlying Device produces them.
func (v *VFS) OpenDirStream(path string) (*DirStream, error) {
	d, err := v.Dev.OpenDir(path)
	if err != nil {
		return nil, err
	}
	return &DirStream{vfs: v, base: path, dir: d}, nil
}

// ReadAt fills p with as many whole encoded Stat records as fit,
// starting at the entry following the last one delivered. offset must
// match the stream's current position exactly.
func (ds *DirStream) ReadAt(p []byte, offset int64) (int, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if offset < 0 || uint64(offset) != ds.offset {
		return 0, ErrBadOffset
	}

	written := 0
	if len(ds.pending) > 0 {
		if len(p) < len(ds.pending) {
			return 0, nil
		}
		n := copy(p, ds.pending)
		written += n
		p = p[n:]
		ds.pending = nil
		ds.offset += uint64(n)
	}

	for len(p) > 0 {
		entry, ok, err := ds.vfs.Dev.DirNext(ds.dir)
		if err != nil {
			return written, err
		}
		if !ok {
			break
		}
		childPath, jerr := Join(ds.base, entry.Name)
		if jerr != nil {
			// A name the device produced isn't a valid 9P component;
			// skip it rather than fail the whole directory read.
			continue
		}
		enc := StatFromAttr(childPath, entry.Attr).Encode(nil)
		if len(enc) > len(p) {
			ds.pending = enc
			return written, nil
		}
		n := copy(p, enc)
		written += n
		p = p[n:]
		ds.offset += uint64(n)
	}
	return written, nil
}

// Close releases the underlying directory handle.
func (ds *DirStream) Close() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.closed {
		return nil
	}
	ds.closed = true
	return ds.vfs.Dev.DirClose(ds.dir)
}
