package fat9p

import (
	"github.com/oschettler/load81-picocalc/fat9p/internal/fatvfs"
	"github.com/oschettler/load81-picocalc/fat9p/internal/util"
	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

// phase is the per-session state machine §4.4 of the spec describes.
type phase int

const (
	phaseAwaitingVersion phase = iota
	phaseAwaitingAttach
	phaseAttached
)

// Session holds everything specific to one client connection: its
// negotiated msize and version, its fid table, and its phase. All
// state here is per-session; the only thing two sessions ever share is
// the VFS (and, beneath it, the FS lock).
type Session struct {
	VFS    *fatvfs.VFS
	Logger Logger

	RemoteAddr string

	maxMsize         uint32
	maxFidsPerClient int

	phase   phase
	msize   uint32
	version string

	fids *fidTable
	txbuf []byte

	// openHandles mirrors the number of fids currently Opened; Open and
	// Create increment it, releaseFid decrements it, so the testable
	// property "opened block-device handles == opened FIDs" (spec §8)
	// can be checked directly instead of just asserted.
	openHandles util.RefCount
}

// NewSession creates a session against vfs, with buffers sized to the
// server's configured ceiling, per §4.4: "both buffers sized to the
// negotiated ceiling (initially MAX_MSIZE)".
func NewSession(vfs *fatvfs.VFS, cfg Config, remoteAddr string) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &Session{
		VFS:              vfs,
		Logger:           logger,
		RemoteAddr:       remoteAddr,
		maxMsize:         cfg.MaxMsize,
		maxFidsPerClient: cfg.MaxFidsPerClient,
		phase:            phaseAwaitingVersion,
		msize:            cfg.MaxMsize,
		fids:             newFidTable(),
		txbuf:            make([]byte, 0, cfg.MaxMsize),
	}
}

func (s *Session) logf(format string, v ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, v...)
	}
}

// Msize is the currently negotiated maximum message size (the
// configured MaxMsize until Tversion completes).
func (s *Session) Msize() uint32 { return s.msize }

// OpenHandles returns the number of fids this session currently has
// open, for comparison against fids.len() in tests of spec §8's
// handle-count invariant.
func (s *Session) OpenHandles() uint64 { return s.openHandles.Count() }

// resetFids invalidates every fid, closing whatever each had open. Used
// by Tversion per §4.6.1: "all prior FIDs (if any) are invalidated".
func (s *Session) resetFids() {
	for _, f := range s.fids.m {
		releaseFid(s, f)
	}
	s.fids.reset()
}

func (s *Session) newBuilder() *proto9p.Builder {
	return proto9p.NewBuilder(s.txbuf[:0]).Begin()
}

func (s *Session) finish(b *proto9p.Builder, mtype uint8, tag uint16) []byte {
	resp := b.Finish(mtype, tag)
	s.txbuf = resp
	return resp
}

func (s *Session) rerror(tag uint16, ename string) []byte {
	resp := proto9p.BuildRerror(s.txbuf[:0], tag, ename)
	s.txbuf = resp
	return resp
}
