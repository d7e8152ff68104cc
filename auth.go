package fat9p

import "github.com/oschettler/load81-picocalc/fat9p/proto9p"

// handleAuth implements §4.6.2. This tree has no authentication; every
// Tauth is rejected, and no afid is ever allocated.
func (s *Session) handleAuth(tag uint16, body []byte) []byte {
	if _, err := proto9p.ParseTauth(body); err != nil {
		return s.rerror(tag, proto9p.EnameProtocol)
	}
	return s.rerror(tag, proto9p.EnameAuthNotNeeded)
}
