package api

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/healwise/server/internal/geo"
	"github.com/healwise/server/internal/store"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	mu          sync.Mutex
	users       map[string]*store.User
	predictions map[string]*store.PredictionRecord
	audit       []store.AuditEntry

	pingErr   error
	saveErr   error
	lookupErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[string]*store.User),
		predictions: make(map[string]*store.PredictionRecord),
	}
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) CreateUser(_ context.Context, email, name, passwordHash, googleSub string) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &store.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		GoogleSub:    googleSub,
		Role:         store.RoleUser,
		CreatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetUserByGoogleSub(_ context.Context, sub string) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.GoogleSub == sub && sub != "" {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ListUsers(context.Context) ([]store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateUserRole(_ context.Context, id, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) SavePrediction(_ context.Context, rec *store.PredictionRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", f.saveErr
	}
	rec.ID = uuid.NewString()
	// Monotonic timestamps so newest-first ordering is unambiguous.
	rec.CreatedAt = time.Now().Add(time.Duration(len(f.predictions)) * time.Millisecond)
	stored := *rec
	f.predictions[rec.ID] = &stored
	return rec.ID, nil
}

func (f *fakeStore) ListPredictionsByOwner(_ context.Context, ownerID string) ([]store.PredictionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.PredictionRecord
	for _, rec := range f.predictions {
		if rec.OwnerID != nil && *rec.OwnerID == ownerID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) DeletePrediction(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.predictions[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.predictions, id)
	return nil
}

func (f *fakeStore) AppendAudit(_ context.Context, actor, action, subject, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audit = append(f.audit, store.AuditEntry{
		ID:        int64(len(f.audit) + 1),
		Actor:     actor,
		Action:    action,
		Subject:   subject,
		Detail:    detail,
		CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeStore) ListAudit(_ context.Context, limit int) ([]store.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]store.AuditEntry, len(f.audit))
	copy(out, f.audit)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit && limit > 0 {
		out = out[:limit]
	}
	return out, nil
}

// fakeGeo returns canned places without touching the network.
type fakeGeo struct {
	places []geo.Place
	err    error
	calls  int
}

func (f *fakeGeo) Search(_ context.Context, query string, limit int) ([]geo.Place, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.places) > limit {
		return f.places[:limit], nil
	}
	return f.places, nil
}

func placeNamed(i int) geo.Place {
	return geo.Place{Name: "Clinic " + strconv.Itoa(i), Latitude: 18.5, Longitude: 73.8, Type: "clinic"}
}
