package wire

import (
	"errors"
	"fmt"
	"strings"
)

// DownloadMode selects whether a file is kept locally or fetched on demand.
type DownloadMode int

const (
	// DownloadOnline keeps only a placeholder locally.
	DownloadOnline DownloadMode = iota
	// DownloadOffline keeps a full local copy.
	DownloadOffline
)

// ModeSeparator splits the path from the mode in SET_DOWNLOAD_MODE.
const ModeSeparator = "|"

// ErrInvalidMode reports a SET_DOWNLOAD_MODE argument that does not follow
// the path|mode grammar.
var ErrInvalidMode = errors.New("wire: invalid download mode argument")

func (m DownloadMode) String() string {
	if m == DownloadOffline {
		return "OFFLINE"
	}
	return "ONLINE"
}

// ParseDownloadMode accepts 0/OFFLINE and 1/ONLINE, case-insensitively.
func ParseDownloadMode(value string) (DownloadMode, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "0", "OFFLINE":
		return DownloadOffline, nil
	case "1", "ONLINE":
		return DownloadOnline, nil
	default:
		return DownloadOnline, fmt.Errorf("%w: mode %q", ErrInvalidMode, value)
	}
}

// ParseSetDownloadMode parses "<path>|<mode>". The last separator wins so
// paths may contain '|'. Both parts must be non-empty.
func ParseSetDownloadMode(arg string) (string, DownloadMode, error) {
	idx := strings.LastIndex(arg, ModeSeparator)
	if idx <= 0 || idx == len(arg)-1 {
		return "", DownloadOnline, fmt.Errorf("%w: %q", ErrInvalidMode, arg)
	}
	mode, err := ParseDownloadMode(arg[idx+1:])
	if err != nil {
		return "", DownloadOnline, err
	}
	return arg[:idx], mode, nil
}
