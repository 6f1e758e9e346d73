package index

import (
	"log/slog"

	"github.com/eunoia-app/eunoia/internal/checksum"
	"github.com/eunoia-app/eunoia/internal/models"
	"github.com/eunoia-app/eunoia/internal/store"
)

// Record kinds held in the index. Notes, logs, and tasks are the searchable
// resources; the remaining collections carry no meaningful free text.
const (
	KindNote = "note"
	KindLog  = "log"
	KindTask = "task"
)

// Doc is a searchable projection of one record.
type Doc struct {
	Row  RecordRow
	Body string
}

func newDoc(kind, id, title, body string) Doc {
	return Doc{
		Row: RecordRow{
			Kind:     kind,
			ID:       id,
			Title:    title,
			Checksum: checksum.Sum([]byte(title + "\x00" + body)),
		},
		Body: body,
	}
}

// NoteDoc projects a note into its index document.
func NoteDoc(n models.Note) Doc {
	d := newDoc(KindNote, n.ID, n.Title, n.Content)
	d.Row.UpdatedAt = n.UpdatedAt
	return d
}

// LogDoc projects a log entry into its index document.
func LogDoc(l models.LogEntry) Doc {
	body := l.Notes
	if l.DiaryEntry != "" {
		body += "\n" + l.DiaryEntry
	}
	d := newDoc(KindLog, l.ID, l.Activity, body)
	d.Row.UpdatedAt = l.Date
	return d
}

// TaskDoc projects a task into its index document.
func TaskDoc(t models.Task) Doc {
	d := newDoc(KindTask, t.ID, t.Title, t.Description)
	d.Row.UpdatedAt = t.CreatedAt
	return d
}

// docsFromStore builds the desired index state from the searchable collections.
func docsFromStore(st *store.Store) ([]Doc, error) {
	var out []Doc

	notes, err := st.Notes.Load()
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		out = append(out, NoteDoc(n))
	}

	logs, err := st.Logs.Load()
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		out = append(out, LogDoc(l))
	}

	tasks, err := st.Tasks.Load()
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		out = append(out, TaskDoc(t))
	}

	return out, nil
}

// Sync brings the index up to date with storage:
//   - new/changed records are upserted
//   - records removed from storage are deleted from the index
func Sync(db *DB, st *store.Store, logger *slog.Logger) error {
	docs, err := docsFromStore(st)
	if err != nil {
		return err
	}

	existing, err := db.AllChecksums()
	if err != nil {
		return err
	}

	desired := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		key := d.Row.Key()
		desired[key] = struct{}{}

		if existing[key] == d.Row.Checksum {
			continue
		}
		if err := db.Upsert(d.Row, d.Body); err != nil {
			logger.Warn("sync: upsert failed", slog.String("record", key), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("record", key))
		}
	}

	// Remove stale entries.
	for key := range existing {
		if _, ok := desired[key]; !ok {
			kind, id, found := splitKey(key)
			if !found {
				continue
			}
			if err := db.Delete(kind, id); err != nil {
				logger.Warn("sync: delete failed", slog.String("record", key), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("record", key))
			}
		}
	}

	return nil
}

func splitKey(key string) (kind, id string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}
