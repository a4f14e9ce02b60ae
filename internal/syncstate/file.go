package syncstate

import "strings"

// FileStatusTag is the coarse per-file sync state.
type FileStatusTag int

const (
	StatusNone FileStatusTag = iota
	StatusSync
	StatusWarning
	StatusUpToDate
	StatusError
	StatusExcluded
	StatusNew
)

// FileStatus is what shell extensions render as an overlay icon.
type FileStatus struct {
	Tag FileStatusTag
	// Shared marks files shared with the current user.
	Shared bool
}

// SocketString renders the status for the STATUS message.
func (s FileStatus) SocketString() string {
	var base string
	switch s.Tag {
	case StatusSync:
		base = "SYNC"
	case StatusWarning, StatusExcluded:
		base = "IGNORE"
	case StatusUpToDate:
		base = "OK"
	case StatusError:
		base = "ERROR"
	case StatusNew:
		base = "NEW"
	default:
		return "NOP"
	}
	if s.Shared {
		base += "+SWM"
	}
	return base
}

// ParseFileStatus reads the SocketString form.
func ParseFileStatus(value string) FileStatus {
	value = strings.ToUpper(strings.TrimSpace(value))
	shared := strings.HasSuffix(value, "+SWM")
	value = strings.TrimSuffix(value, "+SWM")
	var tag FileStatusTag
	switch value {
	case "SYNC":
		tag = StatusSync
	case "IGNORE":
		tag = StatusWarning
	case "OK":
		tag = StatusUpToDate
	case "ERROR":
		tag = StatusError
	case "NEW":
		tag = StatusNew
	default:
		return FileStatus{}
	}
	return FileStatus{Tag: tag, Shared: shared}
}

// Record is the sync journal entry for one file. The zero value is an
// invalid record, meaning the sync engine has never seen the file.
type Record struct {
	Valid         bool
	Path          string
	FileID        string
	NumericFileID int64
	// RemotePerm holds the server permission letters; empty means unknown.
	RemotePerm     string
	IsDirectory    bool
	E2EEncrypted   bool
	E2EMangledName string
}

// CanReshare reports whether the server allows resharing. Unknown
// permissions do not forbid it.
func (r Record) CanReshare() bool {
	if r.RemotePerm == "" {
		return true
	}
	return strings.ContainsRune(r.RemotePerm, 'R')
}

// IsE2E reports whether the record belongs to an end-to-end encrypted path.
func (r Record) IsE2E() bool {
	return r.E2EEncrypted || r.E2EMangledName != ""
}
