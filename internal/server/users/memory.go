package users

import (
	"context"
	"sync"

	"github.com/viktorkr/authapp/internal/common"
	"github.com/viktorkr/authapp/internal/server/models"
)

// MemoryRepository is an in-process credential store used by tests and the
// "memory" backend. The email map is the primary key space; byID is the
// secondary index. Unlike the real backends the index here is updated in the
// same critical section, so it is never stale.
type MemoryRepository struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	byID    map[string]string // id -> email
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Conditional write: occupancy check and insert under one lock.
	if _, ok := r.byEmail[user.Email]; ok {
		return common.ErrEmailTaken
	}
	r.byEmail[user.Email] = user.Clone()
	r.byID[user.ID] = user.Email
	return nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return user.Clone(), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	user, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return user.Clone(), nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	user := r.byEmail[email]
	if user == nil {
		return nil, common.ErrorNotFound
	}

	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	user.UpdatedAt = nowFn()

	return user.Clone(), nil
}
