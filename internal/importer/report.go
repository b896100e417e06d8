package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dadao-education/unicatalog/internal/catalog"
	"gopkg.in/yaml.v3"
)

// ReportConfig is the settings section of a run report
type ReportConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	ChunkSize   int           `yaml:"chunksize"`
	Delay       time.Duration `yaml:"delay"`
}

// RunReport is the YAML document written for each run
type RunReport struct {
	Config       ReportConfig          `yaml:"config"`
	RunID        string                `yaml:"runid"`
	Source       string                `yaml:"source"`
	Timestamp    string                `yaml:"timestamp"`
	State        State                 `yaml:"state"`
	Outcome      Outcome               `yaml:"outcome,omitempty"`
	Universities []string              `yaml:"universities"`
	Chunks       []ChunkResult         `yaml:"chunks"`
	Commit       *catalog.UpsertResult `yaml:"commit,omitempty"`
	Persisted    bool                  `yaml:"persisted"`
	Error        string                `yaml:"error,omitempty"`
	Log          []string              `yaml:"log"`
}

// NewRunReport captures the current state of run
func NewRunReport(run *Run, cfg ReportConfig) RunReport {
	snap := run.Snapshot()
	names := make([]string, 0, snap.Universities)
	for _, u := range run.Result() {
		names = append(names, u.NameCN)
	}
	return RunReport{
		Config:       cfg,
		RunID:        snap.ID,
		Source:       snap.Source,
		Timestamp:    snap.CreatedAt.Format(time.RFC3339),
		State:        snap.State,
		Outcome:      snap.Outcome,
		Universities: names,
		Chunks:       snap.Chunks,
		Commit:       snap.Commit,
		Persisted:    snap.Persisted,
		Error:        snap.Error,
		Log:          snap.Log,
	}
}

// SaveReport writes the report to dir/<timestamp>-<runid>.yaml and returns the path
func SaveReport(dir string, report RunReport) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	stamp := time.Now().Format("2006-01-02_15-04-05")
	if t, err := time.Parse(time.RFC3339, report.Timestamp); err == nil {
		stamp = t.Format("2006-01-02_15-04-05")
	}
	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", stamp, report.RunID))

	data, err := yaml.Marshal(&report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	return filename, nil
}
