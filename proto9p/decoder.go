package proto9p

// Every 9P message on the wire is size[4] type[1] tag[2] body. size is
// the total length of the message, size[4] field included. Scan and
// Frame operate on a session's accumulated receive buffer rather than
// an io.Reader: the dispatcher (see the top-level fat9p package) only
// ever has a byte slice to work with, since framing happens before any
// blocking read is allowed to occur.

// A Frame is one fully-received 9P message, sliced out of a session's
// receive buffer. It is only valid until the buffer is next mutated.
type Frame struct {
	Type uint8
	Tag  uint16
	Body []byte // everything after tag, i.e. size-7 bytes
}

// Scan looks for one complete 9P message at the start of buf. If a
// full message is present, it returns its byte length (including the
// size[4] header) and ok=true. If buf does not yet hold a complete
// message, it returns ok=false with a nil error: the caller should wait
// for more bytes. If the partial header already proves the message is
// malformed, Scan returns an error immediately without waiting for
// more data.
//
// maxSize is the negotiated msize for the connection (the server's
// configured ceiling before Version completes). A message whose declared size exceeds
// maxSize is reported via ErrMsizeExceeded; the caller must close the
// connection per §4.5 of the spec, after sending an Rerror if a
// response slot is available.
func Scan(buf []byte, maxSize uint32) (n int, ok bool, err error) {
	if len(buf) < 4 {
		return 0, false, nil
	}
	size := guint32(buf[:4])
	if size < HeaderSize {
		return 0, false, ErrBadMessage
	}
	if size > maxSize {
		return 0, false, ErrMsizeExceeded
	}
	if uint64(len(buf)) < uint64(size) {
		return 0, false, nil
	}
	return int(size), true, nil
}

// ParseFrame splits a complete message (as identified by a prior call
// to Scan) into its type, tag, and body.
func ParseFrame(msg []byte) (Frame, error) {
	if len(msg) < HeaderSize {
		return Frame{}, ErrBadMessage
	}
	return Frame{
		Type: msg[4],
		Tag:  guint16(msg[5:7]),
		Body: msg[7:],
	}, nil
}

// readString reads a length-prefixed string field at the start of buf
// and returns it along with the remainder of buf. It fails with
// ErrBadMessage rather than panicking if buf is too short for the
// declared length, which can happen with adversarial or corrupt input
// even after Scan has validated the overall message length.
func readString(buf []byte) (s string, rest []byte, err error) {
	if len(buf) < 2 {
		return "", nil, ErrBadMessage
	}
	n := int(guint16(buf[:2]))
	buf = buf[2:]
	if len(buf) < n {
		return "", nil, ErrBadMessage
	}
	return string(buf[:n]), buf[n:], nil
}

func readUint32(buf []byte) (v uint32, rest []byte, err error) {
	if len(buf) < 4 {
		return 0, nil, ErrBadMessage
	}
	return guint32(buf[:4]), buf[4:], nil
}

func readUint64(buf []byte) (v uint64, rest []byte, err error) {
	if len(buf) < 8 {
		return 0, nil, ErrBadMessage
	}
	return guint64(buf[:8]), buf[8:], nil
}

func readUint16(buf []byte) (v uint16, rest []byte, err error) {
	if len(buf) < 2 {
		return 0, nil, ErrBadMessage
	}
	return guint16(buf[:2]), buf[2:], nil
}

func readByte(buf []byte) (v byte, rest []byte, err error) {
	if len(buf) < 1 {
		return 0, nil, ErrBadMessage
	}
	return buf[0], buf[1:], nil
}
