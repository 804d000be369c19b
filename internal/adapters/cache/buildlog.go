package cache

import (
	"errors"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
)

// BuildLog maps every output file to the fingerprint of the build set
// that most recently produced it. It is the store the backend consults
// to decide skip-versus-run.
type BuildLog struct {
	store *Store
}

var _ ports.BuildLog = (*BuildLog)(nil)

// OpenBuildLog loads the build log persisted at path.
func OpenBuildLog(path string, log ports.Logger) *BuildLog {
	return &BuildLog{store: Open(path, log)}
}

// Hash returns the recorded fingerprint for output.
func (l *BuildLog) Hash(output string) (string, bool) {
	v, ok := l.store.Get(output)
	if !ok {
		return "", false
	}
	h, ok := v.(string)
	return h, ok
}

// Record stores hash for every output under one lock, so the entries
// of a build set update together, never partially.
func (l *BuildLog) Record(hash string, outputs []string) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	for _, out := range outputs {
		l.store.values[out] = hash
	}
}

// Forget drops the entries for outputs, making a later build treat
// them as never produced.
func (l *BuildLog) Forget(outputs []string) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	for _, out := range outputs {
		delete(l.store.values, out)
	}
}

// Save persists the log through the underlying store.
func (l *BuildLog) Save() error {
	return l.store.Save()
}

// Stores bundles the three persistent stores of one engine invocation:
// cross-variant state, per-variant state, and the per-variant build
// log.
type Stores struct {
	Shared  *Store
	Variant *Store
	Log     *BuildLog
}

// OpenStores loads all three stores for the given layout.
func OpenStores(layout domain.Layout, log ports.Logger) *Stores {
	return &Stores{
		Shared:  Open(layout.SharedCachePath(), log),
		Variant: Open(layout.VariantCachePath(), log),
		Log:     OpenBuildLog(layout.BuildLogPath(), log),
	}
}

// Save persists every store and joins the failures. Stores whose
// content did not change write nothing, so calling this on every exit
// path is cheap.
func (s *Stores) Save() error {
	return errors.Join(s.Shared.Save(), s.Variant.Save(), s.Log.Save())
}
