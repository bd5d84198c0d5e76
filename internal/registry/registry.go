package registry

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no app carries the requested id.
var ErrNotFound = errors.New("app not found")

// Registry is a threadsafe in-memory catalog of apps, kept in insertion order.
// Every successful mutation is followed by a whole-collection snapshot write.
type Registry struct {
	mu   sync.Mutex
	apps []App
	rev  uint64

	// saveMu orders snapshot writes; saved is the revision last written to disk.
	saveMu sync.Mutex
	saved  uint64

	logger *slog.Logger

	// Where to snapshot. If empty, snapshotting is disabled.
	SnapshotPath string
}

// New loads the snapshot if present and returns a ready registry.
// An unreadable or corrupt snapshot starts the registry empty.
func New(snapshotPath string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		SnapshotPath: snapshotPath,
		logger:       logger.With("component", "registry"),
	}
	if snapshotPath == "" {
		return r
	}

	apps, err := Load(snapshotPath)
	if err != nil {
		r.logger.Warn("snapshot unreadable, starting with an empty collection",
			"path", snapshotPath, "error", err)
		return r
	}
	r.apps = dedupe(apps)
	r.logger.Info("snapshot loaded", "path", snapshotPath, "apps", len(r.apps))
	return r
}

// List returns a copy of every app in insertion order.
func (r *Registry) List() []App {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copyLocked()
}

// Len reports the number of apps.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

// Create stores candidate, assigning a fresh id when it has none.
func (r *Registry) Create(candidate App) App {
	app := candidate.clone()

	r.mu.Lock()
	if app.ID == uuid.Nil || r.indexLocked(app.ID) >= 0 {
		app.ID = r.freshIDLocked()
	}
	r.apps = append(r.apps, app)
	snap, rev := r.commitLocked()
	r.mu.Unlock()

	r.maybeSave(snap, rev)
	return app.clone()
}

// Update overwrites the mutable fields of the app with the given id.
func (r *Registry) Update(id uuid.UUID, f Fields) error {
	r.mu.Lock()
	i := r.indexLocked(id)
	if i < 0 {
		r.mu.Unlock()
		return ErrNotFound
	}
	p := &r.apps[i]
	p.Name = f.Name
	p.Description = cloneString(f.Description)
	p.Command = f.Command
	p.URL = f.URL
	snap, rev := r.commitLocked()
	r.mu.Unlock()

	r.maybeSave(snap, rev)
	return nil
}

// Delete removes the app with the given id.
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	before := len(r.apps)
	kept := r.apps[:0]
	for _, a := range r.apps {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	// clear the tail so removed entries do not linger in the backing array
	for i := len(kept); i < before; i++ {
		r.apps[i] = App{}
	}
	r.apps = kept
	if len(r.apps) == before {
		r.mu.Unlock()
		return ErrNotFound
	}
	snap, rev := r.commitLocked()
	r.mu.Unlock()

	r.maybeSave(snap, rev)
	return nil
}

// Find returns a copy of the app with the given id.
func (r *Registry) Find(id uuid.UUID) (App, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(id)
	if i < 0 {
		return App{}, false
	}
	return r.apps[i].clone(), true
}

func (r *Registry) indexLocked(id uuid.UUID) int {
	for i := range r.apps {
		if r.apps[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) freshIDLocked() uuid.UUID {
	for {
		id := uuid.New()
		if r.indexLocked(id) < 0 {
			return id
		}
	}
}

func (r *Registry) copyLocked() []App {
	out := make([]App, len(r.apps))
	for i := range r.apps {
		out[i] = r.apps[i].clone()
	}
	return out
}

// commitLocked bumps the revision and captures the collection for the snapshot writer.
func (r *Registry) commitLocked() ([]App, uint64) {
	r.rev++
	if r.SnapshotPath == "" {
		return nil, r.rev
	}
	return r.copyLocked(), r.rev
}

// maybeSave performs a best-effort snapshot write if a path is configured.
// A copy older than the one already on disk is dropped.
func (r *Registry) maybeSave(snap []App, rev uint64) {
	if r.SnapshotPath == "" {
		return
	}
	r.saveMu.Lock()
	defer r.saveMu.Unlock()
	if rev <= r.saved {
		return
	}
	if err := Save(r.SnapshotPath, snap); err != nil {
		r.logger.Error("registry snapshot failed", "path", r.SnapshotPath, "error", err)
		return
	}
	r.saved = rev
}

// dedupe keeps the first app for each id; loaded files are not trusted to be unique.
func dedupe(apps []App) []App {
	seen := make(map[uuid.UUID]struct{}, len(apps))
	out := make([]App, 0, len(apps))
	for _, a := range apps {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}
