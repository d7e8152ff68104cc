package fat9p

import (
	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev"
	"github.com/oschettler/load81-picocalc/fat9p/internal/fatvfs"
	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

// handleCreate implements §4.6.6. On success, fid is re-pointed at the
// new entry and left open, exactly as Topen would leave it. Create
// never grows the fid table — it repoints the caller's existing fid —
// so it needs no MAX_FIDS_PER_CLIENT check of its own; attach and walk
// are the only two places a new table entry is ever introduced.
func (s *Session) handleCreate(tag uint16, body []byte) []byte {
	req, err := proto9p.ParseTcreate(body)
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
	if !fid.isDir() {
		return s.rerror(tag, proto9p.EnameNotDir)
	}

	const exotic = proto9p.DMSYMLINK | proto9p.DMEXCL | proto9p.DMAPPEND | proto9p.DMTMP
	if req.Perm&exotic != 0 {
		return s.rerror(tag, proto9p.EnameNotSupported)
	}
	if req.Perm&proto9p.DMDIR != 0 && proto9p.Mode(req.Mode) != proto9p.OREAD {
		return s.rerror(tag, proto9p.EnameNotSupported)
	}

	mode := blockdev.OpenMode{
		Read:  proto9p.Mode(req.Mode) == proto9p.OREAD || proto9p.Mode(req.Mode) == proto9p.ORDWR || proto9p.Mode(req.Mode) == proto9p.OEXEC,
		Write: proto9p.Mode(req.Mode) == proto9p.OWRITE || proto9p.Mode(req.Mode) == proto9p.ORDWR,
	}

	f, qid, cerr := s.VFS.CreateFile(fid.Path, req.Name, req.Perm, mode)
	if cerr != nil {
		return s.rerror(tag, vfsEname(cerr))
	}

	newPath, _ := fatvfs.Join(fid.Path, req.Name)

	if req.Perm&proto9p.DMDIR != 0 {
		f.Close()
		dir, derr := s.VFS.OpenDirStream(newPath)
		if derr != nil {
			return s.rerror(tag, vfsEname(derr))
		}
		fid.Dir = dir
	} else {
		fid.File = f
	}
	fid.Path = newPath
	fid.Qid = qid
	openFid(s, fid)
	fid.RemoveOnClose = req.Mode&proto9p.ORCLOSE != 0

	b := s.newBuilder()
	b.PutQid(qid)
	b.PutUint32(s.iounit())
	return s.finish(b, proto9p.Rcreate, tag)
}
