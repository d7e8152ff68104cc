package fat9p

import "github.com/oschettler/load81-picocalc/fat9p/proto9p"

// handleClunk implements §4.6.9. The fid is released unconditionally:
// even if the RCLOSE-triggered remove below fails, Clunk still
// succeeds from the client's point of view.
func (s *Session) handleClunk(tag uint16, body []byte) []byte {
	req, err := proto9p.ParseTclunk(body)
	if err != nil {
		return s.rerror(tag, proto9p.EnameProtocol)
	}

	fid, ok := s.fids.get(req.Fid)
	if !ok {
		return s.rerror(tag, proto9p.EnameFidUnknown)
	}

	releaseFid(s, fid)
	if fid.RemoveOnClose {
		if err := s.VFS.Remove(fid.Path); err != nil {
			s.logf("fat9p: RCLOSE remove of %s failed: %v", fid.Path, err)
		}
	}
	s.fids.delete(req.Fid)

	return s.finish(s.newBuilder(), proto9p.Rclunk, tag)
}
