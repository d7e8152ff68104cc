package proto9p

import "fmt"

// Stat describes a single directory entry, per the 9P2000.u wire
// layout:
//
//	size[2] type[2] dev[4] qid[13] mode[4] atime[4] mtime[4] length[8]
//	name[s] uid[s] gid[s] muid[s] extension[s] n_uid[4] n_gid[4] n_muid[4]
//
// The outer size[2] is the byte length of everything that follows it.
// Stat values returned by this package always own their backing array;
// callers must not retain slices into one across a call that reuses
// the buffer it came from.
type Stat struct {
	Type    uint16
	Dev     uint32
	Qid     Qid
	Mode    uint32
	Atime   uint32
	Mtime   uint32
	Length  uint64
	Name    string
	Uid     string
	Gid     string
	Muid    string
	Extension string
	NUid    uint32
	NGid    uint32
	NMuid   uint32
}

// NoUID is the sentinel value for the numeric n_uid/n_gid/n_muid
// fields when no numeric id is meaningful.
const NoUID uint32 = 0xFFFFFFFF

// Len returns the number of bytes Stat.Encode will append, not
// counting the two-byte outer size prefix.
func (s Stat) Len() int {
	return statBaseLen +
		2 + len(s.Name) +
		2 + len(s.Uid) +
		2 + len(s.Gid) +
		2 + len(s.Muid) +
		2 + len(s.Extension) +
		4 + 4 + 4
}

// Encode appends the wire encoding of s, including its outer size[2]
// prefix, to buf and returns the extended slice.
func (s Stat) Encode(buf []byte) []byte {
	n := s.Len()
	start := len(buf)
	buf = append(buf, make([]byte, 2+n)...)
	putUint16(buf[start:], uint16(n))
	p := buf[start+2:]

	putUint16(p[0:2], s.Type)
	putUint32(p[2:6], s.Dev)
	copy(p[6:19], s.Qid[:])
	putUint32(p[19:23], s.Mode)
	putUint32(p[23:27], s.Atime)
	putUint32(p[27:31], s.Mtime)
	putUint64(p[31:39], s.Length)
	off := 39
	off = putString(p, off, s.Name)
	off = putString(p, off, s.Uid)
	off = putString(p, off, s.Gid)
	off = putString(p, off, s.Muid)
	off = putString(p, off, s.Extension)
	putUint32(p[off:off+4], s.NUid)
	putUint32(p[off+4:off+8], s.NGid)
	putUint32(p[off+8:off+12], s.NMuid)
	return buf
}

func putString(p []byte, off int, s string) int {
	putUint16(p[off:off+2], uint16(len(s)))
	off += 2
	copy(p[off:], s)
	return off + len(s)
}

// DecodeStat parses a single Stat record from buf, which must begin
// with the record's outer size[2] prefix followed by its body (as
// embedded in an Rstat or Twstat message, or one entry of a directory
// Rread). It returns the decoded Stat and the number of bytes consumed
// from buf (2 + the inner size).
func DecodeStat(buf []byte) (Stat, int, error) {
	if len(buf) < 2 {
		return Stat{}, 0, ErrBadMessage
	}
	n := int(guint16(buf[0:2]))
	if len(buf) < 2+n {
		return Stat{}, 0, ErrBadMessage
	}
	if n < statBaseLen {
		return Stat{}, 0, ErrBadMessage
	}
	p := buf[2 : 2+n]

	var s Stat
	s.Type = guint16(p[0:2])
	s.Dev = guint32(p[2:6])
	copy(s.Qid[:], p[6:19])
	s.Mode = guint32(p[19:23])
	s.Atime = guint32(p[23:27])
	s.Mtime = guint32(p[27:31])
	s.Length = guint64(p[31:39])

	off := 39
	var err error
	if s.Name, off, err = getString(p, off); err != nil {
		return Stat{}, 0, err
	}
	if s.Uid, off, err = getString(p, off); err != nil {
		return Stat{}, 0, err
	}
	if s.Gid, off, err = getString(p, off); err != nil {
		return Stat{}, 0, err
	}
	if s.Muid, off, err = getString(p, off); err != nil {
		return Stat{}, 0, err
	}
	if s.Extension, off, err = getString(p, off); err != nil {
		return Stat{}, 0, err
	}
	if off+12 > len(p) {
		return Stat{}, 0, ErrBadMessage
	}
	s.NUid = guint32(p[off : off+4])
	s.NGid = guint32(p[off+4 : off+8])
	s.NMuid = guint32(p[off+8 : off+12])

	return s, 2 + n, nil
}

func getString(p []byte, off int) (string, int, error) {
	if off+2 > len(p) {
		return "", 0, ErrBadMessage
	}
	n := int(guint16(p[off : off+2]))
	off += 2
	if n > MaxFilenameLen*4 || off+n > len(p) {
		return "", 0, ErrBadMessage
	}
	return string(p[off : off+n]), off + n, nil
}

// DontTouchQid is the all-ones Qid a conforming client sends in a
// Twstat it does not want to alter, matching the null_dir convention
// (e.g. syscall.Qid{Path: ^uint64(0), Vers: ^uint32(0), Type: ^uint8(0)}).
var DontTouchQid = NewQid(0xFF, 0xFFFFFFFF, 0xFFFFFFFFFFFFFFFF)

// DontTouchStat returns a Stat with every mutable field set to its
// "don't touch" sentinel, suitable as a starting point for a Twstat
// that only means to change one or two fields.
func DontTouchStat() Stat {
	return Stat{
		Type:   0xFFFF,
		Dev:    0xFFFFFFFF,
		Qid:    DontTouchQid,
		Mode:   0xFFFFFFFF,
		Atime:  0xFFFFFFFF,
		Mtime:  0xFFFFFFFF,
		Length: 0xFFFFFFFFFFFFFFFF,
	}
}

// IsDontTouch reports whether the named field of s is set to its
// "don't touch" sentinel: all-ones for integers, empty string for
// strings, an all-ones Qid. An unrecognized field name reports false.
func (s Stat) IsDontTouch(field string) bool {
	switch field {
	case "type":
		return s.Type == 0xFFFF
	case "dev":
		return s.Dev == 0xFFFFFFFF
	case "qid":
		return s.Qid == DontTouchQid
	case "mode":
		return s.Mode == 0xFFFFFFFF
	case "atime":
		return s.Atime == 0xFFFFFFFF
	case "mtime":
		return s.Mtime == 0xFFFFFFFF
	case "length":
		return s.Length == 0xFFFFFFFFFFFFFFFF
	case "uid":
		return s.Uid == ""
	case "gid":
		return s.Gid == ""
	case "muid":
		return s.Muid == ""
	}
	return false
}

func (s Stat) String() string {
	return fmt.Sprintf("Stat{name=%q mode=%#o length=%d qid=%s}", s.Name, s.Mode, s.Length, s.Qid)
}
