package reports

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tmpllc001/focusmetrics/internal/domain"
)

// TemplateStore keeps named report configs in a single YAML file.
// Saves rewrite the whole file; the template set stays small enough
// that granular writes buy nothing.
type TemplateStore struct {
	mu   sync.Mutex
	path string
}

// NewTemplateStore binds the store to a YAML file path. The file may
// not exist yet.
func NewTemplateStore(path string) *TemplateStore {
	return &TemplateStore{path: path}
}

type templateFile struct {
	Templates map[string]Config `yaml:"templates"`
}

func (s *TemplateStore) load() (templateFile, error) {
	doc := templateFile{Templates: make(map[string]Config)}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read templates: %w", err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse templates: %w", err)
	}
	if doc.Templates == nil {
		doc.Templates = make(map[string]Config)
	}
	return doc, nil
}

func (s *TemplateStore) write(doc templateFile) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode templates: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create template dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write templates: %w", err)
	}
	return nil
}

// Save validates and stores a template under its config name.
func (s *TemplateStore) Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Templates[cfg.Name] = cfg
	return s.write(doc)
}

// Load fetches a template by name.
func (s *TemplateStore) Load(name string) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return Config{}, err
	}
	cfg, ok := doc.Templates[name]
	if !ok {
		return Config{}, fmt.Errorf("template %s: %w", name, domain.ErrNotFound)
	}
	return cfg, nil
}

// List returns the stored template names.
func (s *TemplateStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Templates))
	for name := range doc.Templates {
		names = append(names, name)
	}
	return names, nil
}

// Delete removes a template by name.
func (s *TemplateStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Templates[name]; !ok {
		return fmt.Errorf("template %s: %w", name, domain.ErrNotFound)
	}
	delete(doc.Templates, name)
	return s.write(doc)
}

// Resolve loads a template and overlays per-run section parameters.
// Overrides are keyed by section name and merge over the stored
// parameters without touching the template file.
func (s *TemplateStore) Resolve(name string, overrides map[string]map[string]string) (Config, error) {
	cfg, err := s.Load(name)
	if err != nil {
		return Config{}, err
	}
	if len(overrides) == 0 {
		return cfg, nil
	}

	for i := range cfg.Sections {
		extra, ok := overrides[cfg.Sections[i].Name]
		if !ok {
			continue
		}
		merged := make(map[string]string, len(cfg.Sections[i].Parameters)+len(extra))
		for k, v := range cfg.Sections[i].Parameters {
			merged[k] = v
		}
		for k, v := range extra {
			merged[k] = v
		}
		cfg.Sections[i].Parameters = merged
	}
	return cfg, nil
}
