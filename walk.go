package fat9p

import (
	"errors"

	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

// errWalkNotDir marks a walk step that resolved successfully but hit a
// non-final path element that isn't a directory (spec §4.6.4); it never
// reaches a client, only the ename chosen alongside it does.
var errWalkNotDir = errors.New("fat9p: walk through non-directory")

// handleWalk implements §4.6.4. It never opens anything; it only
// resolves path components against the tree and, on full success,
// introduces or replaces newfid.
func (s *Session) handleWalk(tag uint16, body []byte) []byte {
	req, err := proto9p.ParseTwalk(body)
	if err != nil {
		return s.rerror(tag, proto9p.EnameProtocol)
	}

	fid, ok := s.fids.get(req.Fid)
	if !ok {
		return s.rerror(tag, proto9p.EnameFidUnknown)
	}
	if fid.Opened && len(req.Wname) > 0 {
		return s.rerror(tag, proto9p.EnameProtocol)
	}

	sameFid := req.Newfid == req.Fid
	if !sameFid {
		if _, inUse := s.fids.get(req.Newfid); inUse {
			return s.rerror(tag, proto9p.EnameFidInUse)
		}
		// newfid is guaranteed to be a brand new table entry from here
		// on; fid itself already counts against the bound, so the table
		// would grow by one (spec §3/§6's MAX_FIDS_PER_CLIENT).
		if s.fids.len() >= s.maxFidsPerClient {
			return s.rerror(tag, proto9p.EnameNoSpace)
		}
	}

	if len(req.Wname) == 0 {
		// Clone case: newfid becomes an independent copy of fid, except
		// when newfid == fid, which spec §4.6.4 makes a true no-op — the
		// existing Fid (and whatever it has open) is left exactly as is.
		if !sameFid {
			clone := *fid
			clone.File = nil
			clone.Dir = nil
			clone.Opened = false
			s.fids.put(req.Newfid, &clone)
		}
		b := s.newBuilder()
		b.PutUint16(0)
		return s.finish(b, proto9p.Rwalk, tag)
	}

	path := fid.Path
	qids := make([]proto9p.Qid, 0, len(req.Wname))
	for i, name := range req.Wname {
		nextPath, qid, werr := s.VFS.Step(path, name)
		ename := ""
		if werr == nil && i < len(req.Wname)-1 && !qid.IsDir() {
			werr = errWalkNotDir
			ename = proto9p.EnameNotDir
		} else if werr != nil {
			ename = vfsEname(werr)
		}
		if werr != nil {
			if i == 0 {
				return s.rerror(tag, ename)
			}
			break
		}
		path = nextPath
		qids = append(qids, qid)
	}

	if len(qids) == len(req.Wname) {
		s.fids.put(req.Newfid, &Fid{Path: path, Qid: qids[len(qids)-1]})
	}

	b := s.newBuilder()
	b.PutUint16(uint16(len(qids)))
	for _, q := range qids {
		b.PutQid(q)
	}
	return s.finish(b, proto9p.Rwalk, tag)
}
