package fat9p

import "github.com/oschettler/load81-picocalc/fat9p/proto9p"

// handleRemove implements §4.6.10: clunk-with-side-effects. The fid is
// released whether or not the underlying remove succeeds.
func (s *Session) handleRemove(tag uint16, body []byte) []byte {
	req, err := proto9p.ParseTremove(body)
	if err != nil {
		return s.rerror(tag, proto9p.EnameProtocol)
	}

	fid, ok := s.fids.get(req.Fid)
	if !ok {
		return s.rerror(tag, proto9p.EnameFidUnknown)
	}

	releaseFid(s, fid)
	rerr := s.VFS.Remove(fid.Path)
	s.fids.delete(req.Fid)

	if rerr != nil {
		return s.rerror(tag, vfsEname(rerr))
	}
	return s.finish(s.newBuilder(), proto9p.Rremove, tag)
}
