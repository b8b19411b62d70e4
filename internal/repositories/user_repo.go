package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BradenHooton/folio/internal/models"
	"github.com/google/uuid"
)

// UserRepository keeps accounts in memory, indexed by id, username and email
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]*models.User
	byUsername map[string]string
	byEmail    map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[string]*models.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

// Create stores a copy of user with a fresh id. Usernames compare
// case-insensitively.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	uname := strings.ToLower(user.Username)
	if _, ok := r.byUsername[uname]; ok {
		return nil, fmt.Errorf("username %q: %w", user.Username, models.ErrConflict)
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, fmt.Errorf("email: %w", models.ErrConflict)
	}

	created := *user
	created.ID = uuid.New().String()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}

	r.byID[created.ID] = &created
	r.byUsername[uname] = created.ID
	r.byEmail[created.Email] = created.ID

	out := created
	return &out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getLocked(id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getLocked(r.byUsername[strings.ToLower(username)])
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getLocked(r.byEmail[email])
}

// MarkEmailVerified flags the account behind email as verified
func (r *UserRepository) MarkEmailVerified(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[r.byEmail[email]]
	if !ok {
		return models.ErrNotFound
	}
	u.EmailVerified = true
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return models.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *UserRepository) getLocked(id string) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *u
	return &out, nil
}
