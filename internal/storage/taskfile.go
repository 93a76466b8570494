// Package storage reads and writes task collection files. A task file is
// YAML: a version marker and an ordered task list. Order is significant —
// it is the input order the query engine filters in.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// TaskFile is the top-level structure of a tasks.yaml file.
type TaskFile struct {
	Version string        `yaml:"version"`
	Tasks   []models.Task `yaml:"tasks"`
}

// Manager defines the interface for loading and persisting a task
// collection file.
type Manager interface {
	Load() error
	Save() error
	Tasks() []models.Task
	Get(id string) (*models.Task, error)
	Add(t models.Task) error
}

type fileManager struct {
	path string
	data TaskFile
}

// NewManager creates a Manager backed by the YAML file at path.
func NewManager(path string) Manager {
	return &fileManager{
		path: path,
		data: TaskFile{Version: "1.0"},
	}
}

// Load reads the task file. A missing file loads as an empty collection.
func (m *fileManager) Load() error {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.data = TaskFile{Version: "1.0"}
			return nil
		}
		return fmt.Errorf("reading task file: %w", err)
	}

	var data TaskFile
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parsing task file %s: %w", m.path, err)
	}
	if data.Version == "" {
		data.Version = "1.0"
	}

	if err := validate(data.Tasks); err != nil {
		return fmt.Errorf("validating task file %s: %w", m.path, err)
	}

	m.data = data
	return nil
}

// Save writes the collection back to disk, creating parent directories as
// needed.
func (m *fileManager) Save() error {
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating task file directory: %w", err)
		}
	}

	raw, err := yaml.Marshal(m.data)
	if err != nil {
		return fmt.Errorf("encoding task file: %w", err)
	}
	if err := os.WriteFile(m.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing task file: %w", err)
	}
	return nil
}

// Tasks returns the loaded tasks in file order.
func (m *fileManager) Tasks() []models.Task {
	return m.data.Tasks
}

// Get returns the task with the given id.
func (m *fileManager) Get(id string) (*models.Task, error) {
	for i := range m.data.Tasks {
		if m.data.Tasks[i].ID == id {
			t := m.data.Tasks[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("task %s not found", id)
}

// Add appends a task to the collection.
func (m *fileManager) Add(t models.Task) error {
	if t.ID == "" {
		return fmt.Errorf("adding task: ID must not be empty")
	}
	for _, existing := range m.data.Tasks {
		if existing.ID == t.ID {
			return fmt.Errorf("adding task: task %s already exists", t.ID)
		}
	}
	m.data.Tasks = append(m.data.Tasks, t)
	return nil
}

// validate rejects duplicate and missing ids, which the engine's
// explanation map and the graph snapshot both key on.
func validate(tasks []models.Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("task at index %d has no id", i)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate task id %s", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// LoadTasks is a convenience for one-shot reads: it loads the file at path
// and returns its tasks.
func LoadTasks(path string) ([]models.Task, error) {
	m := NewManager(path)
	if err := m.Load(); err != nil {
		return nil, err
	}
	return m.Tasks(), nil
}
