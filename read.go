package fat9p

import "github.com/oschettler/load81-picocalc/fat9p/proto9p"

// handleRead implements §4.6.7, for both regular files and
// directories. A directory fid's Dir stream already enforces the
// sequential-offset rule; a regular file is a plain seek-and-read.
func (s *Session) handleRead(tag uint16, body []byte) []byte {
	req, err := proto9p.ParseTread(body)
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

	count := req.Count
	if iou := s.iounit(); iou > 0 && count > iou {
		count = iou
	}

	if fid.Dir != nil {
		buf := make([]byte, count)
		n, derr := fid.Dir.ReadAt(buf, int64(req.Offset))
		if derr != nil {
			return s.rerror(tag, vfsEname(derr))
		}
		return s.finishRead(tag, buf[:n])
	}
	if fid.File == nil {
		return s.rerror(tag, proto9p.EnameIsDir)
	}

	buf := make([]byte, count)
	n, rerr := s.VFS.Dev.ReadAt(fid.File, buf, int64(req.Offset))
	if rerr != nil {
		return s.rerror(tag, vfsEname(rerr))
	}
	return s.finishRead(tag, buf[:n])
}

func (s *Session) finishRead(tag uint16, data []byte) []byte {
	b := s.newBuilder()
	b.PutUint32(uint32(len(data)))
	b.PutBytes(data)
	return s.finish(b, proto9p.Rread, tag)
}
