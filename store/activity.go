package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

const activityFileName = "activity.jsonl"

// Event is one entry from the activity log.
type Event struct {
	ID        string
	Timestamp time.Time
	Type      string
	Fields    map[string]any
}

// AppendEvent records an event in the project's append-only activity
// log: one JSON object per line with at least id, timestamp (ISO-8601)
// and type. Appends never rewrite prior lines.
func (s *Store) AppendEvent(projectPath, eventType string, fields map[string]any) error {
	dir, err := s.projectDir(projectPath)
	if err != nil {
		return err
	}

	mu := lockFor(dir)
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	id, err := nanoid.New()
	if err != nil {
		return fmt.Errorf("generate event id: %w", err)
	}

	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	entry["id"] = id
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["type"] = eventType

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, activityFileName),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open activity log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// ReadEvents returns all events recorded for the project, oldest first.
// An absent log yields an empty slice.
func (s *Store) ReadEvents(projectPath string) ([]Event, error) {
	dir, err := s.projectDir(projectPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, activityFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var raw map[string]any
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, fmt.Errorf("decode activity line: %w", err)
		}

		var ev Event
		if id, ok := raw["id"].(string); ok {
			ev.ID = id
			delete(raw, "id")
		}
		if ts, ok := raw["timestamp"].(string); ok {
			ev.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
			delete(raw, "timestamp")
		}
		if typ, ok := raw["type"].(string); ok {
			ev.Type = typ
			delete(raw, "type")
		}
		ev.Fields = raw
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read activity log: %w", err)
	}
	return events, nil
}
