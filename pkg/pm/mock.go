package pm

import (
	"context"
	"sort"
	"sync"
)

// Mock is an in-memory backend for tests.
type Mock struct {
	mu        sync.Mutex
	name      string
	installed map[string]bool
	explicit  map[string]bool

	// InstallErr and RemoveErr, when set, are returned by the matching
	// call to simulate backend failures.
	InstallErr error
	RemoveErr  error

	// Installs and Removals record the calls made, in order.
	Installs [][]string
	Removals [][]string
}

// NewMock creates a mock backend preloaded with explicitly installed
// packages.
func NewMock(name string, installed ...string) *Mock {
	m := &Mock{
		name:      name,
		installed: make(map[string]bool),
		explicit:  make(map[string]bool),
	}
	for _, pkg := range installed {
		m.installed[pkg] = true
		m.explicit[pkg] = true
	}
	return m
}

func (m *Mock) Name() string {
	return m.name
}

func (m *Mock) Installed(ctx context.Context) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySet(m.installed), nil
}

func (m *Mock) ListExplicit(ctx context.Context) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySet(m.explicit), nil
}

func (m *Mock) Install(ctx context.Context, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InstallErr != nil {
		return m.InstallErr
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	m.Installs = append(m.Installs, sorted)
	for _, name := range names {
		m.installed[name] = true
		m.explicit[name] = true
	}
	return nil
}

func (m *Mock) Remove(ctx context.Context, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	m.Removals = append(m.Removals, sorted)
	for _, name := range names {
		delete(m.installed, name)
		delete(m.explicit, name)
	}
	return nil
}

func copySet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
