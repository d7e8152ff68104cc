package fatvfs

import (
	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev"
	"github.com/oschettler/load81-picocalc/fat9p/proto9p"
)

// noneUser is the literal uid/gid/muid string this server reports: FAT32
// has no notion of file ownership, and spec §4.3 requires the fixed
// "none"/0xFFFFFFFF pair rather than inventing one.
const noneUser = "none"

// QidFromAttr synthesizes a Qid for a filesystem object. Its path comes
// from the FAT32 identity fields in attr (§3: (starting_cluster<<32)|
// dirent_offset); its version is derived from the modification time so
// that editing a file, even in place, changes the Qid a client sees.
func QidFromAttr(attr blockdev.Attr) proto9p.Qid {
	qtype := uint8(proto9p.QTFILE)
	if attr.IsDir {
		qtype = proto9p.QTDIR
	}
	version := uint32(attr.ModTime.Unix())
	path := proto9p.QidPath(attr.StartCluster, attr.DirentOffset)
	return proto9p.NewQid(qtype, version, path)
}

// modeFromAttr maps a FAT32 attribute set onto a 9P dir-mode word: the
// DMDIR bit plus Unix-style rwxrwxrwx permission bits. FAT32 carries no
// per-user permission bits, only a single read-only flag, so every
// class (owner/group/other) gets the same bits.
func modeFromAttr(attr blockdev.Attr) uint32 {
	var mode uint32
	if attr.IsDir {
		mode |= proto9p.DMDIR
		mode |= 0777
	} else if attr.ReadOnly {
		mode |= 0444
	} else {
		mode |= 0666
	}
	return mode
}

// StatFromAttr builds the Stat record for the object at path (the
// object's own absolute 9P path, used only to derive its reported
// Name — the last path element, or "" for the root).
func StatFromAttr(path string, attr blockdev.Attr) proto9p.Stat {
	atime := attr.ModTime
	if attr.HasAccess {
		atime = attr.AccessTime
	}
	length := attr.Size
	if attr.IsDir {
		length = 0
	}
	return proto9p.Stat{
		Type:      0xFFFF,
		Dev:       0xFFFFFFFF,
		Qid:       QidFromAttr(attr),
		Mode:      modeFromAttr(attr),
		Atime:     uint32(atime.Unix()),
		Mtime:     uint32(attr.ModTime.Unix()),
		Length:    length,
		Name:      Base(path),
		Uid:       noneUser,
		Gid:       noneUser,
		Muid:      noneUser,
		Extension: "",
		NUid:      proto9p.NoUID,
		NGid:      proto9p.NoUID,
		NMuid:     proto9p.NoUID,
	}
}
