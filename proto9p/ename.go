package proto9p

// The fixed set of Rerror ename strings this server ever emits. The
// set is closed and client-observable: adding, removing, or rewording
// a string here is a wire compatibility break (spec §4.3, §9).
const (
	EnameNotFound       = "file not found"
	EnamePermission     = "permission denied"
	EnameExists         = "file exists"
	EnameNoSpace        = "no space left"
	EnameIO             = "io error"
	EnameInvalid        = "invalid argument"
	EnameAuthNotNeeded  = "authentication not required"
	EnameUnknownMsgType = "unknown message type"
	EnameProtocol       = "protocol error"
	EnameFidUnknown     = "fid unknown or out of range"
	EnameFidInUse       = "fid in use"
	EnameNotDir         = "not a directory"
	EnameIsDir          = "is a directory"
	EnameWalkLimit      = "walk limit exceeded"
	EnameNameTooLong    = "name too long"
	EnameNotSupported   = "not supported"
)
