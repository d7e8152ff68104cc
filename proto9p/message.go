// Package proto9p implements the wire format of the 9P2000.u protocol:
// message framing, the thirteen request/response type codes, QIDs, and
// stat records. It does not implement any filesystem semantics; see
// the fatvfs and top-level fat9p packages for that.
package proto9p

import (
	"encoding/binary"
	"strconv"
)

// Message type codes. Every 9P2000 transaction is a T-message from the
// client followed by an R-message from the server, except Rerror which
// may be sent in place of any R-message.
const (
	Tversion uint8 = 100
	Rversion uint8 = 101
	Tauth    uint8 = 102
	Rauth    uint8 = 103
	Tattach  uint8 = 104
	Rattach  uint8 = 105
	Terror   uint8 = 106 // illegal to send; Rerror is used instead
	Rerror   uint8 = 107
	Tflush   uint8 = 108
	Rflush   uint8 = 109
	Twalk    uint8 = 110
	Rwalk    uint8 = 111
	Topen    uint8 = 112
	Ropen    uint8 = 113
	Tcreate  uint8 = 114
	Rcreate  uint8 = 115
	Tread    uint8 = 116
	Rread    uint8 = 117
	Twrite   uint8 = 118
	Rwrite   uint8 = 119
	Tclunk   uint8 = 120
	Rclunk   uint8 = 121
	Tremove  uint8 = 122
	Rremove  uint8 = 123
	Tstat    uint8 = 124
	Rstat    uint8 = 125
	Twstat   uint8 = 126
	Rwstat   uint8 = 127
)

// NOTAG is the reserved tag used by the very first Tversion of a
// connection, before any other tag can be considered "in use".
const NOTAG uint16 = 0xFFFF

// NOFID is the sentinel fid value meaning "no fid", used e.g. for the
// afid field of a Tattach when authentication is not performed.
const NOFID uint32 = 0xFFFFFFFF

// Open/create mode bits (the low byte of Topen.Mode and Tcreate.Mode).
const (
	OREAD   uint8 = 0  // open for read
	OWRITE  uint8 = 1  // open for write
	ORDWR   uint8 = 2  // open for read and write
	OEXEC   uint8 = 3  // open for execute (treated as read)
	omodeMask uint8 = 3

	OTRUNC  uint8 = 0x10 // truncate file on open
	ORCLOSE uint8 = 0x40 // remove file on clunk
)

// Mode returns the base access mode (one of OREAD/OWRITE/ORDWR/OEXEC)
// with the OTRUNC/ORCLOSE modifier bits stripped off.
func Mode(m uint8) uint8 { return m & omodeMask }

// Permission/mode bits used in Stat.Mode and Tcreate's perm field.
// These mirror the Plan 9 "dir mode" bits; the low 9 bits are Unix-style
// rwxrwxrwx permissions.
const (
	DMDIR     uint32 = 0x80000000
	DMAPPEND  uint32 = 0x40000000
	DMEXCL    uint32 = 0x20000000
	DMTMP     uint32 = 0x04000000
	DMSYMLINK uint32 = 0x02000000 // rejected: "not supported" (no symlinks)

	// DMPERM is the mask of Unix permission bits within a mode word.
	DMPERM uint32 = 0777
)

// QID type bits, stored in the high byte of a stat Mode and as the
// first byte of a Qid.
const (
	QTDIR    uint8 = 0x80
	QTAPPEND uint8 = 0x40
	QTFILE   uint8 = 0x00
)

// guint16/guint32/guint64 read little-endian integers; the 9P wire
// format is little-endian throughout.
var (
	guint16 = binary.LittleEndian.Uint16
	guint32 = binary.LittleEndian.Uint32
	guint64 = binary.LittleEndian.Uint64

	putUint16 = binary.LittleEndian.PutUint16
	putUint32 = binary.LittleEndian.PutUint32
	putUint64 = binary.LittleEndian.PutUint64
)

// IsTMessage reports whether mtype is one of the thirteen recognized
// client request types.
func IsTMessage(mtype uint8) bool {
	switch mtype {
	case Tversion, Tauth, Tattach, Tflush, Twalk, Topen, Tcreate,
		Tread, Twrite, Tclunk, Tremove, Tstat, Twstat:
		return true
	}
	return false
}

// Name returns a short human-readable name for a message type, for use
// in logging. Unknown types are rendered as "type<N>".
func Name(mtype uint8) string {
	if n, ok := typeNames[mtype]; ok {
		return n
	}
	return "type<" + strconv.Itoa(int(mtype)) + ">"
}

var typeNames = map[uint8]string{
	Tversion: "Tversion", Rversion: "Rversion",
	Tauth: "Tauth", Rauth: "Rauth",
	Tattach: "Tattach", Rattach: "Rattach",
	Rerror: "Rerror",
	Tflush: "Tflush", Rflush: "Rflush",
	Twalk: "Twalk", Rwalk: "Rwalk",
	Topen: "Topen", Ropen: "Ropen",
	Tcreate: "Tcreate", Rcreate: "Rcreate",
	Tread: "Tread", Rread: "Rread",
	Twrite: "Twrite", Rwrite: "Rwrite",
	Tclunk: "Tclunk", Rclunk: "Rclunk",
	Tremove: "Tremove", Rremove: "Rremove",
	Tstat: "Tstat", Rstat: "Rstat",
	Twstat: "Twstat", Rwstat: "Rwstat",
}
