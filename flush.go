package fat9p

import "github.com/oschettler/load81-picocalc/fat9p/proto9p"

// handleFlush implements §4.6.13. Every request is already handled to
// completion before the next one starts (spec §5), so there is never
// anything in flight to cancel; Flush always succeeds immediately.
func (s *Session) handleFlush(tag uint16, body []byte) []byte {
	if _, err := proto9p.ParseTflush(body); err != nil {
		return s.rerror(tag, proto9p.EnameProtocol)
	}
	return s.finish(s.newBuilder(), proto9p.Rflush, tag)
}
