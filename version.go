package fat9p

import (
	"strings"

	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

// handleVersion implements §4.6.1. It is the one message accepted in
// every phase, and the one that can move the session backward: a
// client may reissue Tversion at any time to reset the connection.
func (s *Session) handleVersion(tag uint16, body []byte) []byte {
	req, err := proto9p.ParseTversion(body)
	if err != nil {
		return s.rerror(tag, proto9p.EnameProtocol)
	}

	agreed := agreedVersion(req.Version)
	msize := req.Msize
	if msize > s.maxMsize {
		msize = s.maxMsize
	}
	if msize < proto9p.MinMsize {
		msize = proto9p.MinMsize
	}

	if agreed != "unknown" {
		s.resetFids()
		s.msize = msize
		s.version = agreed
		s.phase = phaseAwaitingAttach
	}

	b := s.newBuilder()
	b.PutUint32(msize)
	b.PutString(agreed)
	return s.finish(b, proto9p.Rversion, tag)
}

// agreedVersion picks the dialect to report back, per §4.6.1: the
// fullest dialect the client's proposal is compatible with, or
// "unknown" if it names neither.
func agreedVersion(proposed string) string {
	switch {
	case strings.HasPrefix(proposed, "9P2000.u"):
		return "9P2000.u"
	case strings.HasPrefix(proposed, "9P2000"):
		return "9P2000"
	}
	return "unknown"
}
