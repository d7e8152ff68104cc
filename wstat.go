package fat9p

import (
	"time"

	"github.com/oschettler/load81-picocalc/fat9p/internal/fatvfs"
	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

// handleWstat implements §4.6.12. Only name, a shrinking length, the
// writable mode bit, and mtime are honored. The type, dev, qid, uid,
// gid and muid fields must carry the "don't touch" sentinel or the
// whole request is rejected; atime is ignored.
func (s *Session) handleWstat(tag uint16, body []byte) []byte {
	req, err := proto9p.ParseTwstat(body)
	if err != nil {
		return s.rerror(tag, proto9p.EnameProtocol)
	}

	fid, ok := s.fids.get(req.Fid)
	if !ok {
		return s.rerror(tag, proto9p.EnameFidUnknown)
	}

	st := req.Stat
	if !st.IsDontTouch("type") || !st.IsDontTouch("dev") || !st.IsDontTouch("qid") ||
		!st.IsDontTouch("uid") || !st.IsDontTouch("gid") || !st.IsDontTouch("muid") {
		return s.rerror(tag, proto9p.EnameNotSupported)
	}

	path := fid.Path

	if !st.IsDontTouch("length") {
		cur, serr := s.VFS.Stat(path)
		if serr != nil {
			return s.rerror(tag, vfsEname(serr))
		}
		if st.Length > cur.Length {
			return s.rerror(tag, proto9p.EnameNotSupported)
		}
		if terr := s.VFS.Truncate(path, st.Length); terr != nil {
			return s.rerror(tag, vfsEname(terr))
		}
	}

	if !st.IsDontTouch("mode") {
		writable := st.Mode&0200 != 0
		if merr := s.VFS.SetReadOnly(path, !writable); merr != nil {
			return s.rerror(tag, vfsEname(merr))
		}
	}

	if !st.IsDontTouch("mtime") {
		if terr := s.VFS.SetModTime(path, time.Unix(int64(st.Mtime), 0)); terr != nil {
			return s.rerror(tag, vfsEname(terr))
		}
	}

	if st.Name != "" {
		newPath, rerr := s.VFS.WstatRename(path, st.Name)
		if rerr != nil {
			return s.rerror(tag, vfsEname(rerr))
		}
		fid.Path = newPath
		renamePrefix(s, path, newPath)
	}

	return s.finish(s.newBuilder(), proto9p.Rwstat, tag)
}

// renamePrefix updates every other fid whose path lay at or under
// oldPath (an object that just moved to newPath), so sibling fids
// walked before the rename still resolve correctly. The caller has
// already re-pointed its own fid at newPath.
func renamePrefix(s *Session, oldPath, newPath string) {
	if oldPath == newPath {
		return
	}
	for _, f := range s.fids.m {
		if rest, ok := fatvfs.TrimPrefix(f.Path, oldPath); ok {
			f.Path = newPath + rest
		}
	}
}
