package proto9p

// A Builder assembles a single response message into a caller-supplied
// buffer, following the reserve-then-backfill discipline §4.8 of the
// spec requires: Begin reserves the 7-byte size/type/tag header without
// writing into it, the body is appended with the Put* methods, and
// Finish backfills the header exactly once. A handler must never write
// the header itself, and must never call Finish after an error path
// has already appended part of a body — Reset and start over instead.
//
// The zero Builder is not usable; create one with NewBuilder.
type Builder struct {
	buf   []byte
	start int // offset of the reserved header within buf
}

// NewBuilder wraps buf (typically a session's TX buffer, reused across
// responses) for building one message. The Builder appends to buf
// starting at len(buf); callers that reuse a buffer across messages
// should reslice it to zero length first.
func NewBuilder(buf []byte) *Builder {
	return &Builder{buf: buf}
}

// Begin reserves the 7-byte message header and returns the Builder for
// chaining. It must be called exactly once, before any Put method.
func (b *Builder) Begin() *Builder {
	b.start = len(b.buf)
	b.buf = append(b.buf, 0, 0, 0, 0, 0, 0, 0)
	return b
}

// Reset discards any body bytes written so far, leaving only the
// reserved header space. Used on the error path: a handler that
// started building a success response but then hit a failure resets
// and writes an Rerror body fresh, per §4.8.
func (b *Builder) Reset() *Builder {
	b.buf = b.buf[:b.start+HeaderSize]
	return b
}

// PutUint8 appends a single byte to the message body.
func (b *Builder) PutUint8(v uint8) *Builder {
	b.buf = append(b.buf, v)
	return b
}

// PutUint16 appends a little-endian uint16 to the message body.
func (b *Builder) PutUint16(v uint16) *Builder {
	var tmp [2]byte
	putUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// PutUint32 appends a little-endian uint32 to the message body.
func (b *Builder) PutUint32(v uint32) *Builder {
	var tmp [4]byte
	putUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// PutUint64 appends a little-endian uint64 to the message body.
func (b *Builder) PutUint64(v uint64) *Builder {
	var tmp [8]byte
	putUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// PutString appends a length-prefixed string to the message body.
func (b *Builder) PutString(s string) *Builder {
	b.PutUint16(uint16(len(s)))
	b.buf = append(b.buf, s...)
	return b
}

// PutQid appends a 13-byte Qid to the message body.
func (b *Builder) PutQid(q Qid) *Builder {
	b.buf = append(b.buf, q[:]...)
	return b
}

// PutBytes appends a raw byte slice to the message body, with no
// length prefix (used for Rread's data field, whose count was already
// written by the caller).
func (b *Builder) PutBytes(p []byte) *Builder {
	b.buf = append(b.buf, p...)
	return b
}

// PutStat appends a Stat record, including its own inner size[2]
// prefix, to the message body. Used for both Rstat (one record) and
// the directory-entry stream returned by Read on a directory (many
// records, back to back).
func (b *Builder) PutStat(s Stat) *Builder {
	b.buf = s.Encode(b.buf)
	return b
}

// Finish backfills the reserved header with this message's final
// size, message type, and tag, and returns the complete message bytes
// (including anything already present in the buffer passed to
// NewBuilder). It must be called exactly once, after the body has been
// fully written.
func (b *Builder) Finish(mtype uint8, tag uint16) []byte {
	size := uint32(len(b.buf) - b.start)
	putUint32(b.buf[b.start:b.start+4], size)
	b.buf[b.start+4] = mtype
	putUint16(b.buf[b.start+5:b.start+7], tag)
	return b.buf
}

// Bytes returns the buffer accumulated so far, without finishing the
// header. Only useful for tests that want to inspect a body before
// Finish.
func (b *Builder) Bytes() []byte { return b.buf }

// BuildRerror is a convenience for the common case of a one-shot error
// response: a fresh Builder whose entire body is a single ename
// string.
func BuildRerror(buf []byte, tag uint16, ename string) []byte {
	b := NewBuilder(buf).Begin()
	b.PutString(ename)
	return b.Finish(Rerror, tag)
}
