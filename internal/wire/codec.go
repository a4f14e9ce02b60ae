package wire

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxLineBytes bounds a single inbound line. Longer lines are discarded.
const MaxLineBytes = 64 * 1024

// ErrLineTooLong reports a discarded oversized line. Reading may continue.
var ErrLineTooLong = errors.New("wire: line exceeds maximum length")

// Command is one parsed inbound line.
type Command struct {
	Verb     Verb
	Argument string
}

// ParseCommand splits a normalized line at its first colon. A line without a
// colon is all verb and has an empty argument.
func ParseCommand(line string) Command {
	verb, arg, _ := strings.Cut(line, ":")
	return Command{Verb: Verb(verb), Argument: arg}
}

func (c Command) String() string {
	if c.Argument == "" {
		return string(c.Verb)
	}
	return string(c.Verb) + ":" + c.Argument
}

// LineReader frames a byte stream into NFC-normalized text lines.
type LineReader struct {
	r       *bufio.Reader
	maxLine int
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReaderSize(r, 4096), maxLine: MaxLineBytes}
}

// ReadLine returns the next complete line without its trailing newline.
// Bytes after the last newline at end of stream are not a line and are
// dropped; io.EOF is returned instead. ErrLineTooLong is returned once per
// oversized line after it has been skipped.
func (lr *LineReader) ReadLine() (string, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, err := lr.r.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(chunk) > lr.maxLine+1 {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		switch {
		case err == nil:
			if tooLong {
				return "", ErrLineTooLong
			}
			return DecodeLine(buf), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		default:
			return "", err
		}
	}
}

// DecodeLine turns raw line bytes into normalized text: the trailing newline
// is removed, invalid UTF-8 is replaced and the result is composed to NFC.
func DecodeLine(raw []byte) string {
	raw = bytes.TrimSuffix(raw, []byte{'\n'})
	text := string(raw)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	return norm.NFC.String(text)
}

// NativePath renders a path with the host separator.
func NativePath(path string) string {
	return filepath.FromSlash(path)
}

// BuildMessage renders VERB[:STATUS][:PATH]. Empty status or path segments
// are omitted.
func BuildMessage(verb Verb, path, status string) string {
	var b strings.Builder
	b.Grow(len(verb) + len(status) + len(path) + 2)
	b.WriteString(string(verb))
	if status != "" {
		b.WriteByte(':')
		b.WriteString(status)
	}
	if path != "" {
		b.WriteByte(':')
		b.WriteString(NativePath(path))
	}
	return b.String()
}

// Join renders colon-joined fields verbatim.
func Join(verb Verb, fields ...string) string {
	if len(fields) == 0 {
		return string(verb)
	}
	return string(verb) + ":" + strings.Join(fields, ":")
}

// MenuItem renders MENU_ITEM:<id><flag><label>.
func MenuItem(id string, enabled bool, label string) string {
	flag := FlagDisabled
	if enabled {
		flag = FlagEnabled
	}
	return string(VerbMenuItem) + ":" + id + flag + label
}

// Frame returns the bytes sent for msg, appending the newline terminator
// when missing.
func Frame(msg string) []byte {
	if strings.HasSuffix(msg, "\n") {
		return []byte(msg)
	}
	out := make([]byte, 0, len(msg)+1)
	out = append(out, msg...)
	return append(out, '\n')
}

// SplitSelection splits a multi-file argument on the record separator.
func SplitSelection(arg string) []string {
	return strings.Split(arg, string(RecordSeparator))
}

// IsMultiSelection reports whether arg names more than one file.
func IsMultiSelection(arg string) bool {
	return strings.ContainsRune(arg, RecordSeparator)
}
