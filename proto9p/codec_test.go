package proto9p

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQidRoundTrip(t *testing.T) {
	q := NewQid(QTDIR, 42, QidPath(7, 256))
	assert.True(t, q.IsDir())
	assert.Equal(t, uint8(QTDIR), q.Type())
	assert.Equal(t, uint32(42), q.Version())
	assert.Equal(t, QidPath(7, 256), q.Path())
}

func TestQidPathPacking(t *testing.T) {
	p := QidPath(1, 2)
	assert.Equal(t, uint64(1)<<32|2, p)
}

func TestStatEncodeDecodeRoundTrip(t *testing.T) {
	in := Stat{
		Type:      0xFFFF,
		Dev:       0xFFFFFFFF,
		Qid:       NewQid(0, 1, QidPath(2, 0)),
		Mode:      0644,
		Atime:     1000,
		Mtime:     1000,
		Length:    5,
		Name:      "hello.txt",
		Uid:       "none",
		Gid:       "none",
		Muid:      "none",
		Extension: "",
		NUid:      NoUID,
		NGid:      NoUID,
		NMuid:     NoUID,
	}

	buf := in.Encode(nil)
	out, n, err := DecodeStat(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("stat round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStatDecodeTruncated(t *testing.T) {
	in := Stat{Name: "x", Uid: "none", Gid: "none", Muid: "none"}
	buf := in.Encode(nil)
	_, _, err := DecodeStat(buf[:len(buf)-2])
	assert.ErrorIs(t, err, ErrBadMessage)
}

func TestStatIsDontTouch(t *testing.T) {
	s := DontTouchStat()

	for _, field := range []string{"type", "dev", "mode", "atime", "mtime", "length", "uid", "gid", "muid", "qid"} {
		assert.Truef(t, s.IsDontTouch(field), "field %s should be don't-touch", field)
	}

	s.Mode = 0644
	assert.False(t, s.IsDontTouch("mode"))

	s2 := DontTouchStat()
	s2.Qid = Qid{}
	assert.False(t, s2.IsDontTouch("qid"), "zero-value Qid must not be mistaken for the all-ones sentinel")
}

func TestBuilderReserveThenBackfill(t *testing.T) {
	b := NewBuilder(nil).Begin()
	b.PutUint32(8192)
	b.PutString("9P2000.u")
	msg := b.Finish(Rversion, 0xFFFF)

	require.Len(t, msg, HeaderSize+4+2+len("9P2000.u"))
	frame, err := ParseFrame(msg)
	require.NoError(t, err)
	assert.Equal(t, Rversion, frame.Type)
	assert.Equal(t, uint16(0xFFFF), frame.Tag)

	req, err := ParseTversion(frame.Body)
	require.NoError(t, err)
	assert.Equal(t, uint32(8192), req.Msize)
	assert.Equal(t, "9P2000.u", req.Version)
}

func TestBuilderResetDiscardsBody(t *testing.T) {
	b := NewBuilder(nil).Begin()
	b.PutString("partial body that should never reach the wire")
	b.Reset()
	b.PutString("invalid argument")
	msg := b.Finish(Rerror, 3)

	frame, err := ParseFrame(msg)
	require.NoError(t, err)
	req, _, err := getString(frame.Body, 0)
	require.NoError(t, err)
	assert.Equal(t, "invalid argument", req)
}

func TestBuildRerror(t *testing.T) {
	msg := BuildRerror(nil, 9, EnameNotFound)
	frame, err := ParseFrame(msg)
	require.NoError(t, err)
	assert.Equal(t, Rerror, frame.Type)
	assert.Equal(t, uint16(9), frame.Tag)
}

func TestNameAndIsTMessage(t *testing.T) {
	assert.Equal(t, "Tversion", Name(Tversion))
	assert.Equal(t, "type<200>", Name(200))
	assert.True(t, IsTMessage(Twalk))
	assert.False(t, IsTMessage(Rwalk))
}
