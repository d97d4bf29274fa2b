package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
)

type Service struct {
	repo UserRepository
}

func NewService(repo UserRepository) *Service {
	return &Service{repo: repo}
}

// CREATE USER (superadmin flow)
func (s *Service) CreateUser(fullName, username, password, role string) (*User, error) {
	if fullName == "" || username == "" || password == "" {
		return nil, errors.New("missing required fields")
	}
	if !validRole(role) {
		return nil, errors.New("invalid role")
	}

	exists, _ := s.repo.ExistsByUsername(username)
	if exists {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return nil, err
	}

	user := &User{
		FullName: fullName,
		Username: username,
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := s.repo.Save(user); err != nil {
		return nil, err
	}

	return user, nil
}

// LOGIN
func (s *Service) Login(username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword(
		[]byte(user.Password),
		[]byte(password),
	)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// LIST (superadmin flow)
func (s *Service) ListUsers() ([]*User, error) {
	return s.repo.ListUsers()
}
