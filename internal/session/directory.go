package session

import (
	"sync"

	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/repository"
)

// Directory is the list of identities login is checked against
type Directory struct {
	mu    sync.RWMutex
	users []*models.User
}

// NewDirectory creates a directory holding copies of users
func NewDirectory(users []*models.User) *Directory {
	d := &Directory{}
	for _, u := range users {
		c := *u
		d.users = append(d.users, &c)
	}
	return d
}

// NewDemoDirectory creates a directory with one demo account per role
func NewDemoDirectory() *Directory {
	return NewDirectory(repository.DemoUsers())
}

// Find returns the entry matching email and role exactly, or nil
func (d *Directory) Find(email, role string) *models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Email == email && u.Role == role {
			c := *u
			return &c
		}
	}
	return nil
}

// AddIfAbsent appends user unless its email is already taken
func (d *Directory) AddIfAbsent(user *models.User) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.emailExistsLocked(user.Email) {
		return false
	}
	c := *user
	d.users = append(d.users, &c)
	return true
}

// Len returns the number of entries
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

func (d *Directory) emailExistsLocked(email string) bool {
	for _, u := range d.users {
		if u.Email == email {
			return true
		}
	}
	return false
}
