package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// SessionLogReporter appends one JSON line per event to session.log under
// the session's workspace, independent of the process-wide stderr log.
// Grounded on yoloswe/swe.go's initSessionLog/logEvent/appendLogEntry.
type SessionLogReporter struct {
	mu sync.Mutex
	f  *os.File
}

// NewSessionLogReporter opens (creating if necessary) path for appending.
func NewSessionLogReporter(path string) (*SessionLogReporter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}
	return &SessionLogReporter{f: f}, nil
}

type logLine struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Detail    any    `json:"detail"`
}

func (s *SessionLogReporter) Event(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := logLine{
		Timestamp: e.Timestamp().Format("2006-01-02T15:04:05.000Z07:00"),
		Type:      eventTypeName(e.Type()),
		Detail:    e,
	}
	data, err := json.Marshal(line)
	if err != nil {
		return
	}
	s.f.Write(append(data, '\n'))
}

func (s *SessionLogReporter) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f.Close()
}

func eventTypeName(t EventType) string {
	switch t {
	case EventStageChange:
		return "stage_change"
	case EventNodeStart:
		return "node_start"
	case EventNodeComplete:
		return "node_complete"
	case EventInterrupt:
		return "interrupt"
	case EventWorkerStart:
		return "worker_start"
	case EventWorkerComplete:
		return "worker_complete"
	case EventIteration:
		return "iteration"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
