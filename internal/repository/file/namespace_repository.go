package file

import (
	"encoding/json"
	"os"
	"sync"

	"catalog-chat-be/internal/pkg/logger"
)

// NamespaceRepository is the persisted set of known vector index
// namespaces: a flat JSON array of names, read once at startup and
// rewritten wholesale on every registration. A mutex serializes writers;
// this process is the only owner of the file.
type NamespaceRepository struct {
	path   string
	logger logger.ILogger

	mu    sync.Mutex
	names []string
	seen  map[string]bool
}

func NewNamespaceRepository(path, seed string, log logger.ILogger) (*NamespaceRepository, error) {
	r := &NamespaceRepository{
		path:   path,
		logger: log,
		seen:   make(map[string]bool),
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		r.add(seed)
		if err := r.persist(); err != nil {
			return nil, err
		}
		return r, nil
	case err != nil:
		return nil, err
	}

	var loaded []string
	if err := json.Unmarshal(data, &loaded); err != nil {
		// Malformed file: fall back to the seeded default rather than
		// refusing to start. The broken content gets overwritten on the
		// next registration.
		if r.logger != nil {
			r.logger.Error("namespace_repository", "Malformed namespace file, falling back to seed", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
		r.add(seed)
		return r, nil
	}

	for _, name := range loaded {
		r.add(name)
	}
	if len(r.names) == 0 {
		r.add(seed)
	}
	return r, nil
}

// List returns all known namespace names in registration order.
func (r *NamespaceRepository) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Register adds name if absent and persists the full set. Registering an
// existing name is a no-op.
func (r *NamespaceRepository) Register(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[name] {
		return nil
	}
	r.add(name)
	return r.persist()
}

func (r *NamespaceRepository) add(name string) {
	if name == "" || r.seen[name] {
		return
	}
	r.seen[name] = true
	r.names = append(r.names, name)
}

func (r *NamespaceRepository) persist() error {
	data, err := json.MarshalIndent(r.names, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}
