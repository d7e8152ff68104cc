package fat9p

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev"
	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev/localdev"
	"github.com/oschettler/load81-picocalc/fat9p/internal/fatvfs"
	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

func body(put func(b *proto9p.Builder)) []byte {
	b := proto9p.NewBuilder(nil).Begin()
	put(b)
	return b.Bytes()[proto9p.HeaderSize:]
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	dev, err := localdev.New(t.TempDir())
	require.NoError(t, err)
	vfs := fatvfs.New(blockdev.NewLocked(dev))
	return NewSession(vfs, NewConfig(), "test")
}

func doVersion(t *testing.T, s *Session) {
	t.Helper()
	resp := Dispatch(s, proto9p.Frame{
		Type: proto9p.Tversion,
		Tag:  proto9p.NOTAG,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(proto9p.DefaultMsize)
			b.PutString("9P2000.u")
		}),
	})
	frame, err := proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rversion, frame.Type)
}

func doAttach(t *testing.T, s *Session, fid uint32) proto9p.Qid {
	t.Helper()
	resp := Dispatch(s, proto9p.Frame{
		Type: proto9p.Tattach,
		Tag:  1,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(fid)
			b.PutUint32(proto9p.NOFID)
			b.PutString("glenda")
			b.PutString("")
		}),
	})
	frame, err := proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rattach, frame.Type)
	var q proto9p.Qid
	copy(q[:], frame.Body)
	return q
}

func TestVersionAttachHandshake(t *testing.T) {
	s := newTestSession(t)
	doVersion(t, s)
	doAttach(t, s, 0)
	require.Equal(t, phaseAttached, s.phase)
}

func TestWalkToMissingFileFailsFirstStep(t *testing.T) {
	s := newTestSession(t)
	doVersion(t, s)
	doAttach(t, s, 0)

	resp := Dispatch(s, proto9p.Frame{
		Type: proto9p.Twalk,
		Tag:  2,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutUint32(1)
			b.PutUint16(1)
			b.PutString("nope")
		}),
	})
	frame, err := proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rerror, frame.Type)
	_, ok := s.fids.get(1)
	require.False(t, ok, "newfid must not be allocated on first-step walk failure")
}

func TestCreateOpenWriteReadClunk(t *testing.T) {
	s := newTestSession(t)
	doVersion(t, s)
	doAttach(t, s, 0)

	resp := Dispatch(s, proto9p.Frame{
		Type: proto9p.Tcreate,
		Tag:  3,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutString("hello.txt")
			b.PutUint32(0644)
			b.PutUint8(proto9p.ORDWR)
		}),
	})
	frame, err := proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rcreate, frame.Type)

	fid0, ok := s.fids.get(0)
	require.True(t, ok)
	require.True(t, fid0.Opened)
	require.Equal(t, "/hello.txt", fid0.Path)

	resp = Dispatch(s, proto9p.Frame{
		Type: proto9p.Twrite,
		Tag:  4,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutUint64(0)
			b.PutUint32(5)
			b.PutBytes([]byte("hello"))
		}),
	})
	frame, err = proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rwrite, frame.Type)

	resp = Dispatch(s, proto9p.Frame{
		Type: proto9p.Tread,
		Tag:  5,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutUint64(0)
			b.PutUint32(1024)
		}),
	})
	frame, err = proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rread, frame.Type)
	count := uint32(frame.Body[0]) | uint32(frame.Body[1])<<8 | uint32(frame.Body[2])<<16 | uint32(frame.Body[3])<<24
	require.Equal(t, []byte("hello"), frame.Body[4:4+count])

	resp = Dispatch(s, proto9p.Frame{
		Type: proto9p.Tclunk,
		Tag:  6,
		Body: body(func(b *proto9p.Builder) { b.PutUint32(0) }),
	})
	frame, err = proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rclunk, frame.Type)
	_, ok = s.fids.get(0)
	require.False(t, ok)

	resp = Dispatch(s, proto9p.Frame{
		Type: proto9p.Tread,
		Tag:  7,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutUint64(0)
			b.PutUint32(8)
		}),
	})
	frame, err = proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rerror, frame.Type)
}

func TestUnknownMessageType(t *testing.T) {
	s := newTestSession(t)
	doVersion(t, s)
	resp := Dispatch(s, proto9p.Frame{Type: 200, Tag: 7})
	frame, err := proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rerror, frame.Type)
}

func TestPhaseGateRejectsWalkBeforeAttach(t *testing.T) {
	s := newTestSession(t)
	doVersion(t, s)

	resp := Dispatch(s, proto9p.Frame{
		Type: proto9p.Twalk,
		Tag:  2,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutUint32(1)
			b.PutUint16(0)
		}),
	})
	frame, err := proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rerror, frame.Type)
}

func TestWstatRenameLengthAndMode(t *testing.T) {
	s := newTestSession(t)
	doVersion(t, s)
	doAttach(t, s, 0)

	resp := Dispatch(s, proto9p.Frame{
		Type: proto9p.Tcreate,
		Tag:  3,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutString("foo.txt")
			b.PutUint32(0644)
			b.PutUint8(proto9p.ORDWR)
		}),
	})
	frame, err := proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rcreate, frame.Type)

	resp = Dispatch(s, proto9p.Frame{
		Type: proto9p.Twrite,
		Tag:  4,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutUint64(0)
			b.PutUint32(5)
			b.PutBytes([]byte("hello"))
		}),
	})
	frame, err = proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rwrite, frame.Type)

	// A conforming Twstat leaves every field it doesn't mean to touch
	// at the all-ones/empty-string sentinel, never a zeroed Qid.
	rename := proto9p.DontTouchStat()
	rename.Name = "bar.txt"
	resp = Dispatch(s, proto9p.Frame{
		Type: proto9p.Twstat,
		Tag:  5,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutStat(rename)
		}),
	})
	frame, err = proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rwstat, frame.Type, "legitimate rename must not be rejected as not-supported")

	fid0, ok := s.fids.get(0)
	require.True(t, ok)
	require.Equal(t, "/bar.txt", fid0.Path)

	truncate := proto9p.DontTouchStat()
	truncate.Length = 2
	resp = Dispatch(s, proto9p.Frame{
		Type: proto9p.Twstat,
		Tag:  6,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutStat(truncate)
		}),
	})
	frame, err = proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rwstat, frame.Type)

	chmod := proto9p.DontTouchStat()
	chmod.Mode = 0444
	resp = Dispatch(s, proto9p.Frame{
		Type: proto9p.Twstat,
		Tag:  7,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutStat(chmod)
		}),
	})
	frame, err = proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rwstat, frame.Type)

	resp = Dispatch(s, proto9p.Frame{
		Type: proto9p.Tstat,
		Tag:  8,
		Body: body(func(b *proto9p.Builder) { b.PutUint32(0) }),
	})
	frame, err = proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rstat, frame.Type)
	st, _, err := proto9p.DecodeStat(frame.Body)
	require.NoError(t, err)
	require.Equal(t, "bar.txt", st.Name)
	require.Equal(t, uint64(2), st.Length)
	require.Equal(t, uint32(0444), st.Mode&0777)
}

func TestWalkIntoSelfIsNoop(t *testing.T) {
	s := newTestSession(t)
	doVersion(t, s)
	doAttach(t, s, 0)

	resp := Dispatch(s, proto9p.Frame{
		Type: proto9p.Tcreate,
		Tag:  3,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutString("open.txt")
			b.PutUint32(0644)
			b.PutUint8(proto9p.ORDWR)
		}),
	})
	frame, err := proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rcreate, frame.Type)

	before, ok := s.fids.get(0)
	require.True(t, ok)
	require.True(t, before.Opened)
	handlesBefore := s.OpenHandles()

	// Twalk with newfid == fid and zero wname is the legal no-op walk
	// into itself (spec §4.6.4): it must not clear the fid's open state.
	resp = Dispatch(s, proto9p.Frame{
		Type: proto9p.Twalk,
		Tag:  4,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutUint32(0)
			b.PutUint16(0)
		}),
	})
	frame, err = proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rwalk, frame.Type)

	after, ok := s.fids.get(0)
	require.True(t, ok)
	require.Same(t, before, after, "walk into itself must leave the existing *Fid untouched")
	require.True(t, after.Opened)
	require.NotNil(t, after.File)
	require.Equal(t, handlesBefore, s.OpenHandles(), "no-op walk must not change the open-handle count")
}

func TestOpenHandleCountTracksFidTable(t *testing.T) {
	s := newTestSession(t)
	doVersion(t, s)
	doAttach(t, s, 0)
	require.Equal(t, uint64(0), s.OpenHandles())

	resp := Dispatch(s, proto9p.Frame{
		Type: proto9p.Tcreate,
		Tag:  3,
		Body: body(func(b *proto9p.Builder) {
			b.PutUint32(0)
			b.PutString("tracked.txt")
			b.PutUint32(0644)
			b.PutUint8(proto9p.ORDWR)
		}),
	})
	frame, err := proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rcreate, frame.Type)
	require.Equal(t, uint64(1), s.OpenHandles(), "create leaves the fid opened")

	resp = Dispatch(s, proto9p.Frame{
		Type: proto9p.Tclunk,
		Tag:  4,
		Body: body(func(b *proto9p.Builder) { b.PutUint32(0) }),
	})
	frame, err = proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rclunk, frame.Type)
	require.Equal(t, uint64(0), s.OpenHandles(), "clunk must release the handle it counted")
}

func TestFlushIsNoopSuccess(t *testing.T) {
	s := newTestSession(t)
	doVersion(t, s)
	resp := Dispatch(s, proto9p.Frame{
		Type: proto9p.Tflush,
		Tag:  9,
		Body: body(func(b *proto9p.Builder) { b.PutUint16(1) }),
	})
	frame, err := proto9p.ParseFrame(resp)
	require.NoError(t, err)
	require.Equal(t, proto9p.Rflush, frame.Type)
}
