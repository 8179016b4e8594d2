package users

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/collabwrite/collabwrite/internal/models"
)

// DemoUser pairs a user profile with a plaintext demo password. Only wired
// when DEMO_MODE is enabled; never used in other environments.
type DemoUser struct {
	User     models.User
	Password string
}

// DefaultDemoUsers are the demo credential accounts, usable only behind the
// explicit demo-mode flag.
func DefaultDemoUsers() []DemoUser {
	return []DemoUser{
		{
			User:     models.User{Sub: "1", Email: "demo@example.com", Name: "Demo User", Image: "/placeholder.svg"},
			Password: "demo123",
		},
		{
			User:     models.User{Sub: "2", Email: "test@example.com", Name: "Test User", Image: "/placeholder.svg"},
			Password: "test123",
		},
	}
}

// DemoRepository is an in-memory user store seeded with demo accounts. It
// implements UserRepository and additionally supports credential checks.
type DemoRepository struct {
	mu        sync.RWMutex
	bySub     map[string]*models.User
	passwords map[string]string // email -> password
	byEmail   map[string]string // email -> sub
}

func NewDemoRepository(seed []DemoUser) *DemoRepository {
	r := &DemoRepository{
		bySub:     make(map[string]*models.User),
		passwords: make(map[string]string),
		byEmail:   make(map[string]string),
	}
	now := time.Now().UTC()
	for _, du := range seed {
		u := du.User
		u.CreatedAt = now
		u.UpdatedAt = now
		r.bySub[u.Sub] = &u
		r.passwords[u.Email] = du.Password
		r.byEmail[u.Email] = u.Sub
	}
	return r
}

func (r *DemoRepository) UpsertBySub(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	existing, ok := r.bySub[u.Sub]
	if ok {
		existing.Email = u.Email
		existing.Name = u.Name
		existing.Image = u.Image
		existing.UpdatedAt = now
		cp := *existing
		return &cp, nil
	}
	cp := *u
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.bySub[u.Sub] = &cp
	out := cp
	return &out, nil
}

func (r *DemoRepository) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.bySub[sub]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// Authenticate checks email/password against the seeded demo accounts.
// Returns nil (no error) when the credentials do not match.
func (r *DemoRepository) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	want, ok := r.passwords[email]
	if !ok {
		return nil, nil
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(password)) != 1 {
		return nil, nil
	}
	u := r.bySub[r.byEmail[email]]
	cp := *u
	return &cp, nil
}
