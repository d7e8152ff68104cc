package fat9p

import "github.com/oschettler/load81-picocalc/fat9p/proto9p"

// handleStat implements §4.6.11.
func (s *Session) handleStat(tag uint16, body []byte) []byte {
	req, err := proto9p.ParseTstat(body)
	if err != nil {
		return s.rerror(tag, proto9p.EnameProtocol)
	}

	fid, ok := s.fids.get(req.Fid)
	if !ok {
		return s.rerror(tag, proto9p.EnameFidUnknown)
	}

	st, serr := s.VFS.Stat(fid.Path)
	if serr != nil {
		return s.rerror(tag, vfsEname(serr))
	}

	b := s.newBuilder()
	b.PutStat(st)
	return s.finish(b, proto9p.Rstat, tag)
}
