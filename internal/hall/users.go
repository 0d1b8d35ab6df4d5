package hall

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/crypto/bcrypt"
)

// Role selects which dashboard and operations a user gets.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// User is a login account. Student accounts use the student ID as username.
type User struct {
	Username     string `json:"username" yaml:"username"`
	PasswordHash string `json:"-" yaml:"password_hash"`
	Role         Role   `json:"role" yaml:"role"`
}

type userRegistry struct {
	order  []*User
	byName map[string]*User
}

func newUserRegistry() *userRegistry {
	return &userRegistry{byName: make(map[string]*User)}
}

func (r *userRegistry) get(name string) (*User, bool) {
	u, ok := r.byName[name]
	return u, ok
}

func (r *userRegistry) add(u User) bool {
	if _, exists := r.byName[u.Username]; exists {
		return false
	}
	stored := u
	r.order = append(r.order, &stored)
	r.byName[u.Username] = &stored
	return true
}

func (r *userRegistry) remove(name string) {
	if _, ok := r.byName[name]; !ok {
		return
	}
	delete(r.byName, name)
	r.order = slices.DeleteFunc(r.order, func(u *User) bool { return u.Username == name })
}

func (r *userRegistry) len() int { return len(r.order) }

func (r *userRegistry) list() []User {
	out := make([]User, len(r.order))
	for i, u := range r.order {
		out[i] = *u
	}
	return out
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// AddUser creates a login account.
func (s *Service) AddUser(ctx context.Context, username, password string, role Role) error {
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	return s.mutate(ctx, func() ([]Event, error) {
		if !s.users.add(User{Username: username, PasswordHash: hash, Role: role}) {
			return nil, ErrDuplicateUser
		}
		return []Event{{Kind: EventUserAdded, RefID: username}}, nil
	})
}

// RegisterStudent enrolls st and creates its student account in one step.
func (s *Service) RegisterStudent(ctx context.Context, st Student, password string) error {
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	return s.mutate(ctx, func() ([]Event, error) {
		if _, exists := s.students.get(st.ID); exists {
			return nil, ErrDuplicateStudent
		}
		if _, exists := s.users.get(st.ID); exists {
			return nil, ErrDuplicateUser
		}
		st.RoomNumber = ""
		s.students.add(st)
		s.users.add(User{Username: st.ID, PasswordHash: hash, Role: RoleStudent})
		return []Event{
			{Kind: EventStudentAdded, StudentID: st.ID},
			{Kind: EventUserAdded, RefID: st.ID},
		}, nil
	})
}

// Authenticate returns the user whose stored credentials match.
func (s *Service) Authenticate(username, password string) (User, error) {
	s.mu.Lock()
	u, ok := s.users.get(username)
	var user User
	if ok {
		user = *u
	}
	s.mu.Unlock()

	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("failed to verify password: %w", err)
	}
	return user, nil
}
