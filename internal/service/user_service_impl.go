package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planportal/internal/app"
	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/alexanderramin/planportal/internal/repository"
)

type userService struct {
	users repository.UserRepo
	subs  domain.Subscriptions
}

// NewUserService registers users. Ids that collide with a broadcast token in
// subs are refused; nil subs means the default principal channel.
func NewUserService(users repository.UserRepo, subs domain.Subscriptions) UserService {
	if subs == nil {
		subs = domain.DefaultSubscriptions()
	}
	return &userService{users: users, subs: subs}
}

type newUser struct {
	ID   string `validate:"required,max=64,excludesall=/"`
	Name string `validate:"required"`
	Role string `validate:"required,oneof=principal coordinator"`
}

func (s *userService) Add(ctx context.Context, id, name string, role domain.Role) (*domain.User, error) {
	in := newUser{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name), Role: string(role)}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if s.subs.IsToken(in.ID) {
		return nil, &app.ValidationError{Field: "id", Message: fmt.Sprintf("%q is reserved for a broadcast channel", in.ID)}
	}
	u := &domain.User{
		ID:        in.ID,
		Name:      in.Name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.Get(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}
