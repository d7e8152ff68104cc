package fat9p

import (
	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev"
	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

// iounit returns the per-fid read/write size hint this server reports,
// per §4.6.5: a value no larger than msize-24, comfortably inside the
// room a Tread/Twrite response/request has left over after its own
// envelope and fixed fields.
func (s *Session) iounit() uint32 {
	const overhead = 24
	if s.msize <= overhead {
		return 0
	}
	return s.msize - overhead
}

// handleOpen implements §4.6.5.
func (s *Session) handleOpen(tag uint16, body []byte) []byte {
	req, err := proto9p.ParseTopen(body)
	if err != nil {
		return s.rerror(tag, proto9p.EnameProtocol)
	}

	fid, ok := s.fids.get(req.Fid)
	if !ok {
		return s.rerror(tag, proto9p.EnameFidUnknown)
	}
	if fid.Opened {
		return s.rerror(tag, proto9p.EnameProtocol)
	}

	mode := blockdev.OpenMode{
		Read:     proto9p.Mode(req.Mode) == proto9p.OREAD || proto9p.Mode(req.Mode) == proto9p.ORDWR || proto9p.Mode(req.Mode) == proto9p.OEXEC,
		Write:    proto9p.Mode(req.Mode) == proto9p.OWRITE || proto9p.Mode(req.Mode) == proto9p.ORDWR,
		Truncate: req.Mode&proto9p.OTRUNC != 0,
	}

	if fid.isDir() {
		if mode.Write || mode.Truncate {
			return s.rerror(tag, proto9p.EnameIsDir)
		}
		dir, derr := s.VFS.OpenDirStream(fid.Path)
		if derr != nil {
			return s.rerror(tag, vfsEname(derr))
		}
		fid.Dir = dir
		openFid(s, fid)
		fid.RemoveOnClose = req.Mode&proto9p.ORCLOSE != 0
		return s.finishOpen(tag, fid.Qid)
	}

	f, oerr := s.VFS.OpenFile(fid.Path, mode)
	if oerr != nil {
		return s.rerror(tag, vfsEname(oerr))
	}
	fid.File = f
	openFid(s, fid)
	fid.RemoveOnClose = req.Mode&proto9p.ORCLOSE != 0

	return s.finishOpen(tag, fid.Qid)
}

func (s *Session) finishOpen(tag uint16, qid proto9p.Qid) []byte {
	b := s.newBuilder()
	b.PutQid(qid)
	b.PutUint32(s.iounit())
	return s.finish(b, proto9p.Ropen, tag)
}
