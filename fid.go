package fat9p

import (
	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev"
	"github.com/oschettler/load81-picocalc/fat9p/internal/fatvfs"
	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

// Fid is one entry of a session's fid table: a client-chosen handle
// pointing at a path in the tree, optionally opened for I/O.
type Fid struct {
	Path   string
	Qid    proto9p.Qid
	Opened bool

	// Set only once Opened is true. File is non-nil for a regular file
	// opened via Topen/Tcreate; Dir is non-nil for a directory opened
	// for reading. A fid is never both.
	File blockdev.File
	Dir  *fatvfs.DirStream

	RemoveOnClose bool
}

func (f *Fid) isDir() bool { return f.Qid.IsDir() }

// fidTable is a session's fid → Fid map. It is never touched from more
// than one goroutine at a time: the server's single dispatch worker
// (queue.go) guarantees at most one handler runs across the whole
// server, matching spec §5's "no other handler on core A runs while
// one is executing" invariant, so the table needs no lock of its own —
// the same reasoning the teacher's conn.fids map relies on.
type fidTable struct {
	m map[uint32]*Fid
}

func newFidTable() *fidTable {
	return &fidTable{m: make(map[uint32]*Fid)}
}

func (t *fidTable) get(fid uint32) (*Fid, bool) {
	f, ok := t.m[fid]
	return f, ok
}

func (t *fidTable) put(fid uint32, f *Fid) {
	t.m[fid] = f
}

func (t *fidTable) delete(fid uint32) {
	delete(t.m, fid)
}

func (t *fidTable) len() int {
	return len(t.m)
}

// reset drops every fid, closing nothing — callers that need opened
// handles released first (e.g. a Tversion resetting the session) must
// do that before calling reset.
func (t *fidTable) reset() {
	t.m = make(map[uint32]*Fid)
}

// closeFid releases whatever the fid has open, swallowing close errors
// from the device: Tclunk must always release the fid regardless of
// whether the underlying close succeeded (spec §4.6.9).
func closeFid(s *Session, f *Fid) {
	if !f.Opened {
		return
	}
	if f.Dir != nil {
		f.Dir.Close()
	}
	if f.File != nil {
		s.VFS.Dev.Close(f.File)
	}
}

// openFid marks f as opened and accounts for it in the session's open-
// handle counter. Every path that sets Fid.Opened = true (Open, Create)
// goes through this instead of setting the field directly, so the
// counter never drifts from the fid table it mirrors.
func openFid(s *Session, f *Fid) {
	f.Opened = true
	s.openHandles.IncRef()
}

// releaseFid is the single exit path for an opened fid: Clunk, Remove,
// and resetFids all route through it instead of calling closeFid
// directly, so the open-handle counter stays in lockstep with however
// many fids are actually marked Opened (spec §8's "opened block-device
// handles == opened FIDs" property).
func releaseFid(s *Session, f *Fid) {
	if !f.Opened {
		return
	}
	closeFid(s, f)
	s.openHandles.DecRef()
	f.Opened = false
}
