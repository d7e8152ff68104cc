package fat9p

import "github.com/oschettler/load81-picocalc/fat9p/proto9p"

// phaseAllows implements §4.7's phase gate: which message types a
// session will accept in its current phase. Tversion is accepted in
// every phase (it is explicitly idempotent and resets the session);
// everything else requires attach to have happened, except Tauth and
// Tattach themselves, which are valid once version negotiation is
// behind the session.
func phaseAllows(p phase, mtype uint8) bool {
	if mtype == proto9p.Tversion {
		return true
	}
	switch p {
	case phaseAwaitingVersion:
		return false
	case phaseAwaitingAttach, phaseAttached:
		switch mtype {
		case proto9p.Tauth, proto9p.Tattach:
			return true
		}
		return p == phaseAttached
	}
	return false
}

// Dispatch decodes and runs a single request, returning the complete
// response message (including its header). It is the synchronous,
// one-at-a-time handler invocation §4.5 describes: the caller (the
// server's single dispatch worker, Server.runWorker in server.go) must
// not call Dispatch again concurrently for the same session.
func Dispatch(s *Session, frame proto9p.Frame) []byte {
	if !proto9p.IsTMessage(frame.Type) {
		return s.rerror(frame.Tag, proto9p.EnameUnknownMsgType)
	}
	if !phaseAllows(s.phase, frame.Type) {
		return s.rerror(frame.Tag, proto9p.EnameProtocol)
	}

	switch frame.Type {
	case proto9p.Tversion:
		return s.handleVersion(frame.Tag, frame.Body)
	case proto9p.Tauth:
		return s.handleAuth(frame.Tag, frame.Body)
	case proto9p.Tattach:
		return s.handleAttach(frame.Tag, frame.Body)
	case proto9p.Tflush:
		return s.handleFlush(frame.Tag, frame.Body)
	case proto9p.Twalk:
		return s.handleWalk(frame.Tag, frame.Body)
	case proto9p.Topen:
		return s.handleOpen(frame.Tag, frame.Body)
	case proto9p.Tcreate:
		return s.handleCreate(frame.Tag, frame.Body)
	case proto9p.Tread:
		return s.handleRead(frame.Tag, frame.Body)
	case proto9p.Twrite:
		return s.handleWrite(frame.Tag, frame.Body)
	case proto9p.Tclunk:
		return s.handleClunk(frame.Tag, frame.Body)
	case proto9p.Tremove:
		return s.handleRemove(frame.Tag, frame.Body)
	case proto9p.Tstat:
		return s.handleStat(frame.Tag, frame.Body)
	case proto9p.Twstat:
		return s.handleWstat(frame.Tag, frame.Body)
	}
	// IsTMessage already restricted frame.Type to the cases above.
	return s.rerror(frame.Tag, proto9p.EnameUnknownMsgType)
}
