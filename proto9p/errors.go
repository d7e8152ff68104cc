package proto9p

import "errors"

// ErrBadMessage is returned by Scan, ParseFrame, the Parse* request
// parsers and DecodeStat when a message is malformed:
// too short, too long, or with a string/stat length that would read
// past the end of the containing message. Per spec, this is always a
// framing-level failure (EBADMSG), distinct from an RPC returning
// Rerror for a well-formed request.
var ErrBadMessage = errors.New("protocol error")

// ErrMsizeExceeded is returned by Scan when a message's size
// field is larger than the negotiated msize for the connection.
var ErrMsizeExceeded = errors.New("msize exceeded")
