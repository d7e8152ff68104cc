package proto9p

// This file parses the Body of a Frame (see decoder.go) into typed
// request structs, one per T-message. Unlike the teacher implementation's
// on-demand field accessors, these are parsed eagerly into plain
// structs: sessions hold at most one in-flight request at a time (the
// spec forbids concurrent handler execution), so there is no benefit
// to deferring field access, and eager parsing lets every handler
// start from a value that has already been fully bounds-checked.

// TversionReq is the body of a Tversion request.
type TversionReq struct {
	Msize   uint32
	Version string
}

func ParseTversion(body []byte) (TversionReq, error) {
	msize, body, err := readUint32(body)
	if err != nil {
		return TversionReq{}, err
	}
	version, _, err := readString(body)
	if err != nil {
		return TversionReq{}, err
	}
	return TversionReq{Msize: msize, Version: version}, nil
}

// TauthReq is the body of a Tauth request.
type TauthReq struct {
	Afid  uint32
	Uname string
	Aname string
}

func ParseTauth(body []byte) (TauthReq, error) {
	afid, body, err := readUint32(body)
	if err != nil {
		return TauthReq{}, err
	}
	uname, body, err := readString(body)
	if err != nil {
		return TauthReq{}, err
	}
	aname, _, err := readString(body)
	if err != nil {
		return TauthReq{}, err
	}
	return TauthReq{Afid: afid, Uname: uname, Aname: aname}, nil
}

// TattachReq is the body of a Tattach request.
type TattachReq struct {
	Fid   uint32
	Afid  uint32
	Uname string
	Aname string
}

func ParseTattach(body []byte) (TattachReq, error) {
	fid, body, err := readUint32(body)
	if err != nil {
		return TattachReq{}, err
	}
	afid, body, err := readUint32(body)
	if err != nil {
		return TattachReq{}, err
	}
	uname, body, err := readString(body)
	if err != nil {
		return TattachReq{}, err
	}
	aname, _, err := readString(body)
	if err != nil {
		return TattachReq{}, err
	}
	return TattachReq{Fid: fid, Afid: afid, Uname: uname, Aname: aname}, nil
}

// TflushReq is the body of a Tflush request.
type TflushReq struct {
	Oldtag uint16
}

func ParseTflush(body []byte) (TflushReq, error) {
	oldtag, _, err := readUint16(body)
	if err != nil {
		return TflushReq{}, err
	}
	return TflushReq{Oldtag: oldtag}, nil
}

// TwalkReq is the body of a Twalk request.
type TwalkReq struct {
	Fid    uint32
	Newfid uint32
	Wname  []string
}

func ParseTwalk(body []byte) (TwalkReq, error) {
	fid, body, err := readUint32(body)
	if err != nil {
		return TwalkReq{}, err
	}
	newfid, body, err := readUint32(body)
	if err != nil {
		return TwalkReq{}, err
	}
	nwname, body, err := readUint16(body)
	if err != nil {
		return TwalkReq{}, err
	}
	if int(nwname) > MaxWalkElem {
		return TwalkReq{}, ErrBadMessage
	}
	names := make([]string, nwname)
	for i := range names {
		var name string
		name, body, err = readString(body)
		if err != nil {
			return TwalkReq{}, err
		}
		names[i] = name
	}
	return TwalkReq{Fid: fid, Newfid: newfid, Wname: names}, nil
}

// TopenReq is the body of a Topen request.
type TopenReq struct {
	Fid  uint32
	Mode uint8
}

func ParseTopen(body []byte) (TopenReq, error) {
	fid, body, err := readUint32(body)
	if err != nil {
		return TopenReq{}, err
	}
	mode, _, err := readByte(body)
	if err != nil {
		return TopenReq{}, err
	}
	return TopenReq{Fid: fid, Mode: mode}, nil
}

// TcreateReq is the body of a Tcreate request.
type TcreateReq struct {
	Fid  uint32
	Name string
	Perm uint32
	Mode uint8
}

func ParseTcreate(body []byte) (TcreateReq, error) {
	fid, body, err := readUint32(body)
	if err != nil {
		return TcreateReq{}, err
	}
	name, body, err := readString(body)
	if err != nil {
		return TcreateReq{}, err
	}
	perm, body, err := readUint32(body)
	if err != nil {
		return TcreateReq{}, err
	}
	mode, _, err := readByte(body)
	if err != nil {
		return TcreateReq{}, err
	}
	return TcreateReq{Fid: fid, Name: name, Perm: perm, Mode: mode}, nil
}

// TreadReq is the body of a Tread request.
type TreadReq struct {
	Fid    uint32
	Offset uint64
	Count  uint32
}

func ParseTread(body []byte) (TreadReq, error) {
	fid, body, err := readUint32(body)
	if err != nil {
		return TreadReq{}, err
	}
	offset, body, err := readUint64(body)
	if err != nil {
		return TreadReq{}, err
	}
	count, _, err := readUint32(body)
	if err != nil {
		return TreadReq{}, err
	}
	return TreadReq{Fid: fid, Offset: offset, Count: count}, nil
}

// TwriteReq is the body of a Twrite request. Data aliases the
// session's receive buffer and must be copied by the caller before the
// buffer is reused.
type TwriteReq struct {
	Fid    uint32
	Offset uint64
	Data   []byte
}

func ParseTwrite(body []byte) (TwriteReq, error) {
	fid, body, err := readUint32(body)
	if err != nil {
		return TwriteReq{}, err
	}
	offset, body, err := readUint64(body)
	if err != nil {
		return TwriteReq{}, err
	}
	count, body, err := readUint32(body)
	if err != nil {
		return TwriteReq{}, err
	}
	if uint64(len(body)) < uint64(count) {
		return TwriteReq{}, ErrBadMessage
	}
	return TwriteReq{Fid: fid, Offset: offset, Data: body[:count]}, nil
}

// TclunkReq is the body of a Tclunk request.
type TclunkReq struct{ Fid uint32 }

func ParseTclunk(body []byte) (TclunkReq, error) {
	fid, _, err := readUint32(body)
	if err != nil {
		return TclunkReq{}, err
	}
	return TclunkReq{Fid: fid}, nil
}

// TremoveReq is the body of a Tremove request.
type TremoveReq struct{ Fid uint32 }

func ParseTremove(body []byte) (TremoveReq, error) {
	fid, _, err := readUint32(body)
	if err != nil {
		return TremoveReq{}, err
	}
	return TremoveReq{Fid: fid}, nil
}

// TstatReq is the body of a Tstat request.
type TstatReq struct{ Fid uint32 }

func ParseTstat(body []byte) (TstatReq, error) {
	fid, _, err := readUint32(body)
	if err != nil {
		return TstatReq{}, err
	}
	return TstatReq{Fid: fid}, nil
}

// TwstatReq is the body of a Twstat request.
type TwstatReq struct {
	Fid  uint32
	Stat Stat
}

func ParseTwstat(body []byte) (TwstatReq, error) {
	fid, body, err := readUint32(body)
	if err != nil {
		return TwstatReq{}, err
	}
	stat, _, err := DecodeStat(body)
	if err != nil {
		return TwstatReq{}, err
	}
	return TwstatReq{Fid: fid, Stat: stat}, nil
}
