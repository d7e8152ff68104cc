package fat9p

import "github.com/oschettler/load81-picocalc/fat9p/proto9p"

// handleAttach implements §4.6.3. afid is accepted but ignored: this
// server never asks for authentication, so a well-behaved client always
// sends NOFID, and a misbehaving one gets humored rather than rejected
// outright, since afid carries no meaning here either way.
func (s *Session) handleAttach(tag uint16, body []byte) []byte {
	req, err := proto9p.ParseTattach(body)
	if err != nil {
		return s.rerror(tag, proto9p.EnameProtocol)
	}
	if _, inUse := s.fids.get(req.Fid); inUse {
		return s.rerror(tag, proto9p.EnameFidInUse)
	}
	if s.fids.len() >= s.maxFidsPerClient {
		return s.rerror(tag, proto9p.EnameNoSpace)
	}

	st, serr := s.VFS.Stat("/")
	if serr != nil {
		return s.rerror(tag, vfsEname(serr))
	}

	s.fids.put(req.Fid, &Fid{Path: "/", Qid: st.Qid})
	s.phase = phaseAttached

	b := s.newBuilder()
	b.PutQid(st.Qid)
	return s.finish(b, proto9p.Rattach, tag)
}
