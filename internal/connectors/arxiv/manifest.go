package arxiv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
)

var _ driven.PaperManifest = (*Manifest)(nil)

// ManifestFile is written next to the downloaded PDFs.
const ManifestFile = "_arxiv_papers.yaml"

// Manifest stores paper metadata as YAML.
type Manifest struct {
	path string
}

// NewManifest returns the manifest for the PDFs in dir.
func NewManifest(dir string) *Manifest {
	return &Manifest{path: filepath.Join(dir, ManifestFile)}
}

// Path returns the manifest file path.
func (m *Manifest) Path() string {
	return m.path
}

// Load returns the saved papers, or nil when no manifest exists yet.
func (m *Manifest) Load() ([]domain.Paper, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var papers []domain.Paper
	if err := yaml.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("parse %s: %w", m.path, err)
	}
	return papers, nil
}

// Save replaces the manifest with papers.
func (m *Manifest) Save(papers []domain.Paper) error {
	if papers == nil {
		papers = []domain.Paper{}
	}
	data, err := yaml.Marshal(papers)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
