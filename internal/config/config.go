// Package config locates a release-notes project on disk and parses its
// configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataDirName is the sub-directory inside a release notes project that
// holds all colophon configuration and generated files.
const DataDirName = "colophon"

// GeneratedDirName is the sub-directory inside the data directory that
// holds all generated documents.
const GeneratedDirName = "generated"

const (
	templateFileName = "templates.yaml"
	ticketsFileName  = "tickets.yaml"
	snapshotDBName   = "tickets.db"
)

// DefaultProjectDir returns the project directory from the COLOPHON_PROJECT
// env var, falling back to the working directory.
func DefaultProjectDir() string {
	if env := os.Getenv("COLOPHON_PROJECT"); env != "" {
		return env
	}
	return "."
}

// Project holds the resolved paths of a release notes project.
type Project struct {
	BaseDir      string
	DataDir      string
	GeneratedDir string
}

// LoadProject resolves the project directory layout. A missing
// configuration directory is a fatal setup error.
func LoadProject(dir string) (*Project, error) {
	base, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	dataDir := filepath.Join(base, DataDirName)

	info, err := os.Stat(dataDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("the configuration directory is missing: %s", dataDir)
	}

	return &Project{
		BaseDir:      base,
		DataDir:      dataDir,
		GeneratedDir: filepath.Join(dataDir, GeneratedDirName),
	}, nil
}

// TemplatePath is the location of the document template file.
func (p *Project) TemplatePath() string {
	return filepath.Join(p.DataDir, templateFileName)
}

// TicketsPath is the default location of the resolved ticket snapshot.
func (p *Project) TicketsPath() string {
	return filepath.Join(p.DataDir, ticketsFileName)
}

// SnapshotDBPath is the location of the SQLite ticket snapshot. Larger
// projects publish this instead of the YAML snapshot.
func (p *Project) SnapshotDBPath() string {
	return filepath.Join(p.DataDir, snapshotDBName)
}

// HasSnapshotDB reports whether the project carries a SQLite snapshot.
func (p *Project) HasSnapshotDB() bool {
	info, err := os.Stat(p.SnapshotDBPath())
	return err == nil && !info.IsDir()
}
