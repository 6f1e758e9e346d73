// Package store provides typed repositories over the collection-file storage.
//
// Every mutation is a whole-collection read-modify-write: the array is
// decoded, changed in memory, and written back atomically. There is no
// partial update and the last writer wins, which matches the storage
// contract of one JSON array per resource.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/eunoia-app/eunoia/internal/apperr"
	"github.com/eunoia-app/eunoia/internal/models"
	"github.com/eunoia-app/eunoia/internal/storage"
)

// Record is any resource with a string identifier.
type Record interface {
	RecordID() string
}

// Collection is a typed repository for one resource type.
type Collection[T Record] struct {
	provider storage.Provider
	name     string
	logger   *slog.Logger
}

// NewCollection creates a typed collection bound to a storage name.
func NewCollection[T Record](p storage.Provider, name string, logger *slog.Logger) *Collection[T] {
	return &Collection[T]{provider: p, name: name, logger: logger}
}

// Name returns the storage collection name.
func (c *Collection[T]) Name() string { return c.name }

// Load decodes the full collection. A missing file is an empty collection;
// an unparsable file is treated as empty and logged, never fatal.
func (c *Collection[T]) Load() ([]T, error) {
	data, err := c.provider.Read(c.name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("store: corrupt collection treated as empty",
			slog.String("collection", c.name),
			slog.String("error", err.Error()))
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save writes the full collection back.
func (c *Collection[T]) Save(items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", c.name, err)
	}
	return c.provider.Write(c.name, data)
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id string) (T, error) {
	var zero T
	items, err := c.Load()
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if item.RecordID() == id {
			return item, nil
		}
	}
	return zero, apperr.ErrNotFound
}

// Insert appends a new record, rejecting duplicate ids.
func (c *Collection[T]) Insert(item T) error {
	items, err := c.Load()
	if err != nil {
		return err
	}
	for _, existing := range items {
		if existing.RecordID() == item.RecordID() {
			return apperr.ErrAlreadyExists
		}
	}
	return c.Save(append(items, item))
}

// Update applies mutate to the record with the given id and writes the
// collection back. The mutated record is returned.
func (c *Collection[T]) Update(id string, mutate func(*T) error) (T, error) {
	var zero T
	items, err := c.Load()
	if err != nil {
		return zero, err
	}
	for i := range items {
		if items[i].RecordID() != id {
			continue
		}
		if err := mutate(&items[i]); err != nil {
			return zero, err
		}
		if err := c.Save(items); err != nil {
			return zero, err
		}
		return items[i], nil
	}
	return zero, apperr.ErrNotFound
}

// Delete removes the record with the given id.
func (c *Collection[T]) Delete(id string) error {
	items, err := c.Load()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].RecordID() == id {
			return c.Save(append(items[:i], items[i+1:]...))
		}
	}
	return apperr.ErrNotFound
}

// Store bundles the typed collections for every resource.
type Store struct {
	Tasks     *Collection[models.Task]
	Goals     *Collection[models.Goal]
	Habits    *Collection[models.Habit]
	Logs      *Collection[models.LogEntry]
	Notes     *Collection[models.Note]
	Reminders *Collection[models.Reminder]
	Expenses  *Collection[models.Expense]
	Events    *Collection[models.CalendarEvent]
}

// New creates a Store over the given provider.
func New(p storage.Provider, logger *slog.Logger) *Store {
	return &Store{
		Tasks:     NewCollection[models.Task](p, models.ColTasks, logger),
		Goals:     NewCollection[models.Goal](p, models.ColGoals, logger),
		Habits:    NewCollection[models.Habit](p, models.ColHabits, logger),
		Logs:      NewCollection[models.LogEntry](p, models.ColLogs, logger),
		Notes:     NewCollection[models.Note](p, models.ColNotes, logger),
		Reminders: NewCollection[models.Reminder](p, models.ColReminders, logger),
		Expenses:  NewCollection[models.Expense](p, models.ColExpenses, logger),
		Events:    NewCollection[models.CalendarEvent](p, models.ColEvents, logger),
	}
}
