package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/spec-kit/process-desk/internal/domain"
	"github.com/spec-kit/process-desk/internal/repository"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	users   []domain.User
	lookups int
	err     error
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string, match repository.UsernameMatch) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.User
	for _, u := range r.users {
		if u.Username == username || (match == repository.MatchCaseInsensitive && strings.EqualFold(u.Username, username)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, username, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].Username == username {
			r.users[i].PasswordHash = hash
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeProcessRepo struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]domain.Process
	writes  int
	listErr error
}

func newFakeProcessRepo() *fakeProcessRepo {
	return &fakeProcessRepo{rows: make(map[int64]domain.Process)}
}

func (r *fakeProcessRepo) List(context.Context) ([]domain.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.Process, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *fakeProcessRepo) GetByID(_ context.Context, id int64) (*domain.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (r *fakeProcessRepo) Create(_ context.Context, p *domain.Process) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	r.nextID++
	p.ID = r.nextID
	r.rows[p.ID] = *p
	return nil
}

func (r *fakeProcessRepo) Update(_ context.Context, p *domain.Process) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if _, ok := r.rows[p.ID]; !ok {
		return sql.ErrNoRows
	}
	r.rows[p.ID] = *p
	return nil
}

func (r *fakeProcessRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}
