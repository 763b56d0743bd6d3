package contact

import (
	"bufio"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/folio/internal/errors"
)

// maxLineBytes bounds one log line when reading; context strings are short.
const maxLineBytes = 1 << 20

// Entry is one line of the email log.
type Entry struct {
	ID        string    `json:"id,omitempty"`
	Email     string    `json:"email"`
	Timestamp Timestamp `json:"timestamp"`
	Context   string    `json:"context"`
}

// Timestamp is written as RFC 3339. Reading also accepts the zone-less
// ISO 8601 form found in older logs, interpreted as UTC.
type Timestamp struct {
	time.Time
}

var legacyTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	for _, layout := range legacyTimestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// Log appends entries to a line-delimited JSON file. Entries are never
// rewritten or removed.
type Log struct {
	path string
	now  func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewLog returns a Log writing to path.
func NewLog(path string) *Log {
	return &Log{
		path:    path,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Path returns the log file location.
func (l *Log) Path() string { return l.path }

// Append writes one entry for email and returns it. Each entry is a single
// write on an O_APPEND descriptor, and appends within the process are serialized.
func (l *Log) Append(email, context string) (*Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), l.entropy)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("generate entry id: %w", err))
	}

	entry := &Entry{
		ID:        id.String(),
		Email:     strings.TrimSpace(email),
		Timestamp: Timestamp{now},
		Context:   context,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	line = append(line, '\n')

	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("create email log directory: %w", err))
	}

	file, err := openAppend(l.path)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidRequest) {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("open email log: %w", err))
	}
	defer file.Close()

	if _, err := file.Write(line); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("write email log: %w", err))
	}
	return entry, nil
}

// LineError describes a log line that could not be parsed.
type LineError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Contents is everything read back from a log file.
type Contents struct {
	Entries []Entry     `json:"entries"`
	Invalid []LineError `json:"invalid,omitempty"`
}

// ReadLog parses the log at path. Blank lines are ignored and malformed ones
// reported in Invalid. A missing file reads as empty.
func ReadLog(path string) (*Contents, error) {
	out := &Contents{Entries: []Entry{}}

	file, err := openRead(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		if errors.Is(err, errors.ErrInvalidRequest) {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("open email log: %w", err))
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			out.Invalid = append(out.Invalid, LineError{Line: lineNum, Message: fmt.Sprintf("invalid JSON: %v", err)})
			continue
		}
		if entry.Email == "" {
			out.Invalid = append(out.Invalid, LineError{Line: lineNum, Message: "missing email field"})
			continue
		}
		out.Entries = append(out.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("read email log: %w", err))
	}
	return out, nil
}
