package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/rentopedia/rentals-service/internal/events"
	"github.com/rentopedia/rentals-service/internal/models"
	"github.com/rentopedia/rentals-service/internal/repositories"
)

// ------------------------------------------------------------------
// In-memory PropertyRepository. UpdateWithRetry runs the real
// optimistic-locking loop against the fake store, and forcedConflicts
// lets tests simulate concurrent writers losing the version race.
// ------------------------------------------------------------------

type fakePropertyRepo struct {
	mu              sync.Mutex
	store           map[uuid.UUID]*models.Property
	forcedConflicts int
	listCalls       int
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{store: map[uuid.UUID]*models.Property{}}
}

func clone[T any](src T) T {
	var dst T
	b, err := json.Marshal(src)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(b, &dst); err != nil {
		panic(err)
	}
	return dst
}

func (f *fakePropertyRepo) Create(_ context.Context, p *models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := clone(*p)
	cp.RowVersion = 1
	f.store[p.ID] = &cp
	return nil
}

func (f *fakePropertyRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.store[id]
	if !ok {
		return nil, nil
	}
	cp := clone(*p)
	return &cp, nil
}

func (f *fakePropertyRepo) getByID(ctx context.Context, id string) (*models.Property, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, pgx.ErrNoRows
	}
	p, err := f.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakePropertyRepo) ListAll(_ context.Context) ([]*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := []*models.Property{}
	for _, p := range f.store {
		cp := clone(*p)
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakePropertyRepo) ListByOwner(_ context.Context, username string) ([]*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Property{}
	for _, p := range f.store {
		if p.OwnerUserID == username {
			cp := clone(*p)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) ListByRequester(_ context.Context, username string) ([]*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Property{}
	for _, p := range f.store {
		for _, r := range p.RentRequests {
			if r.Requester == username {
				cp := clone(*p)
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) ListWithRequestsByOwner(_ context.Context, username string) ([]*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Property{}
	for _, p := range f.store {
		if p.OwnerUserID == username && len(p.RentRequests) > 0 {
			cp := clone(*p)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) Update(_ context.Context, p *models.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := clone(*p)
	f.store[p.ID] = &cp
	return nil
}

func (f *fakePropertyRepo) UpdateIfVersion(_ context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.store[p.ID]
	if !ok {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	if f.forcedConflicts > 0 {
		f.forcedConflicts--
		stored.RowVersion++ // concurrent writer got there first
	}
	if stored.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	cp := clone(*p)
	cp.RowVersion = expected + 1
	f.store[p.ID] = &cp
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (f *fakePropertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	return repositories.WithRetry(ctx, 3, id.String(), f.getByID, f.UpdateIfVersion, mutate)
}

func (f *fakePropertyRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.store, id)
	return nil
}

func (f *fakePropertyRepo) DeleteByOwner(_ context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.store {
		if p.OwnerUserID == username {
			delete(f.store, id)
		}
	}
	return nil
}

// ------------------------------------------------------------------
// In-memory UserRepository
// ------------------------------------------------------------------

type fakeUserRepo struct {
	mu    sync.Mutex
	store map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{store: map[uuid.UUID]*models.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	cp.RowVersion = 1
	f.store[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.store[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) getByID(ctx context.Context, id string) (*models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, pgx.ErrNoRows
	}
	u, err := f.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.store {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateIfVersion(_ context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.store[u.ID]
	if !ok || stored.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	cp := *u
	cp.RowVersion = expected + 1
	f.store[u.ID] = &cp
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (f *fakeUserRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return repositories.WithRetry(ctx, 3, id.String(), f.getByID, f.UpdateIfVersion, mutate)
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.store, id)
	return nil
}

// ------------------------------------------------------------------
// In-memory DeletedUserRepository and recording event listener
// ------------------------------------------------------------------

type fakeDeletedUserRepo struct {
	mu       sync.Mutex
	archived []*models.DeletedUser
}

func (f *fakeDeletedUserRepo) Create(_ context.Context, d *models.DeletedUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *d
	f.archived = append(f.archived, &cp)
	return nil
}

type recordingListener struct {
	mu     sync.Mutex
	events []events.RentRequestEvent
}

func (l *recordingListener) OnRentRequestChanged(_ context.Context, ev events.RentRequestEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *recordingListener) last() (events.RentRequestEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return events.RentRequestEvent{}, false
	}
	return l.events[len(l.events)-1], true
}
