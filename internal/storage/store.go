package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/heatanim/internal/heat"
)

const (
	MetadataFile = "metadata.json"
	// StampLayout is the minute-granularity stamp used for grouping runs.
	StampLayout = "200601021504"
)

// Store lays out runs as <baseDir>/<stamp>/<run-id>/.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) BaseDir() string { return s.baseDir }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string      `json:"id"`
	Stamp     string      `json:"stamp"`
	Timestamp time.Time   `json:"timestamp"`
	Params    heat.Params `json:"params"`
	DX        float64     `json:"dx"`
	CFL       float64     `json:"cfl"`
	Solver    string      `json:"solver"`
	Output    string      `json:"output"` // aggregate file name inside Dir
	Timesteps int         `json:"timesteps"`
	Positions int         `json:"positions"`
	Dir       string      `json:"-"`
}

// Allocate creates a fresh, empty run directory and returns its path.
func (s *Store) Allocate(stamp, runID string) (string, error) {
	runDir := filepath.Join(s.baseDir, stamp, runID)
	if _, err := os.Stat(runDir); err == nil {
		return "", fmt.Errorf("run directory %s already exists", runDir)
	}
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	return runDir, nil
}

func (s *Store) Save(runDir string, meta RunMetadata) error {
	f, err := os.Create(filepath.Join(runDir, MetadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// List returns every run with readable metadata, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	stamps, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, stamp := range stamps {
		if !stamp.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(s.baseDir, stamp.Name()))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			meta, err := readMetadata(filepath.Join(s.baseDir, stamp.Name(), entry.Name()))
			if err != nil {
				continue
			}
			runs = append(runs, *meta)
		}
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Load finds a run by its id or by any unique fragment of it.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	matches, err := filepath.Glob(filepath.Join(s.baseDir, "*", "*"+runID+"*"))
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("run %s: %w", runID, fs.ErrNotExist)
	case 1:
		return readMetadata(matches[0])
	default:
		return nil, fmt.Errorf("run id %s is ambiguous (%d matches)", runID, len(matches))
	}
}

// LoadResult re-reads the aggregate output of a stored run.
func (s *Store) LoadResult(meta *RunMetadata) (*heat.Result, error) {
	records, err := ReadAggregate(filepath.Join(meta.Dir, meta.Output))
	if err != nil {
		return nil, err
	}
	return heat.NewResult(meta.ID, meta.Params, meta.Dir, records), nil
}

func readMetadata(runDir string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(runDir, MetadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	if meta.ID == "" {
		return nil, errors.New("metadata without run id")
	}
	meta.Dir = runDir
	return &meta, nil
}
