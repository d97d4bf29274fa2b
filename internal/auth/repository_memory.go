package auth

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

type InMemoryUserRepository struct {
	users map[string]*User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]*User),
	}
}

func (r *InMemoryUserRepository) Save(user *User) error {
	// Generate UUID if not already set
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.Username] = user
	return nil
}

func (r *InMemoryUserRepository) ExistsByUsername(username string) (bool, error) {
	_, exists := r.users[username]
	return exists, nil
}

func (r *InMemoryUserRepository) FindByUsername(username string) (*User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (r *InMemoryUserRepository) ListUsers() ([]*User, error) {
	var users []*User
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FullName < users[j].FullName })
	return users, nil
}
