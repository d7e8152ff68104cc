package fat9p

import "github.com/oschettler/load81-picocalc/fat9p/proto9p"

// handleWrite implements §4.6.8.
func (s *Session) handleWrite(tag uint16, body []byte) []byte {
	req, err := proto9p.ParseTwrite(body)
	if err != nil {
		return s.rerror(tag, proto9p.EnameProtocol)
	}

	fid, ok := s.fids.get(req.Fid)
	if !ok {
		return s.rerror(tag, proto9p.EnameFidUnknown)
	}
	if !fid.Opened {
		return s.rerror(tag, proto9p.EnameProtocol)
	}
	if fid.Dir != nil || fid.File == nil {
		return s.rerror(tag, proto9p.EnameIsDir)
	}

	n, werr := s.VFS.Dev.WriteAt(fid.File, req.Data, int64(req.Offset))
	if werr != nil {
		return s.rerror(tag, vfsEname(werr))
	}

	b := s.newBuilder()
	b.PutUint32(uint32(n))
	return s.finish(b, proto9p.Rwrite, tag)
}
