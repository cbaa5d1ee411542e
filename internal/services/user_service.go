package services

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"userapi/internal/domain"
	"userapi/internal/repos"
)

type UserService struct {
	Users *repos.UserRepo
	Cost  int
}

func NewUserService(users *repos.UserRepo, cost int) *UserService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserService{Users: users, Cost: cost}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Users.Users(ctx)
}

// ByID returns the zero User when id is unknown.
func (s *UserService) ByID(ctx context.Context, id int64) (domain.User, error) {
	return s.Users.ByID(ctx, id)
}

func (s *UserService) Exists(ctx context.Context, id int64) (bool, error) {
	return s.Users.Exists(ctx, id)
}

// Create hashes password and stores the user. The plaintext never reaches
// the store.
func (s *UserService) Create(ctx context.Context, email, password, name, school string) (domain.CreateResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.Cost)
	if err != nil {
		return domain.UserFailure, fmt.Errorf("hash password: %w", err)
	}
	return s.Users.Create(ctx, email, string(hash), name, school)
}

// Update leaves the password untouched.
func (s *UserService) Update(ctx context.Context, id int64, email, name, school string) (int64, error) {
	return s.Users.Update(ctx, id, email, name, school)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.Users.Delete(ctx, id)
}
