package user

import (
	"strings"

	"botsales-backend/internal/domain"
	"botsales-backend/internal/pkg/validation"
)

// Repository is the user side of the entity store.
type Repository interface {
	AddUser(domain.User) (domain.User, error)
	GetUser(id string) (domain.User, bool)
	GetUserByEmail(email string) (domain.User, bool)
	UpdateUser(id string, fn func(*domain.User) error) (domain.User, error)
}

type Service struct {
	Store Repository
}

type RegisterInput struct {
	Email    string           `json:"email" validate:"required,email,max=254"`
	Name     string           `json:"name" validate:"max=80"`
	Phone    string           `json:"phone" validate:"max=30"`
	Location *domain.Location `json:"location"`
}

// ProfilePatch updates the editable profile fields; nil fields are left alone.
type ProfilePatch struct {
	Name     *string          `json:"name" validate:"omitempty,max=80"`
	Avatar   *string          `json:"avatar" validate:"omitempty,max=500"`
	Phone    *string          `json:"phone" validate:"omitempty,max=30"`
	Bio      *string          `json:"bio" validate:"omitempty,max=1000"`
	Location *domain.Location `json:"location"`
}

// Register creates a user. The name defaults to the local part of the email and the
// location to Sydney.
func (s *Service) Register(in RegisterInput) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	in.Email = email
	if err := validation.Struct(in); err != nil {
		return domain.User{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	loc := domain.DefaultLocation
	if in.Location != nil && in.Location.City != "" {
		loc = *in.Location
	}
	return s.Store.AddUser(domain.User{
		Email:    email,
		Name:     name,
		Phone:    strings.TrimSpace(in.Phone),
		Location: loc,
	})
}

// Login resolves the user for a demo sign-in. Unknown emails are registered on the
// fly; created reports whether that happened.
func (s *Service) Login(email string) (u domain.User, created bool, err error) {
	if existing, ok := s.Store.GetUserByEmail(email); ok {
		return existing, false, nil
	}
	u, err = s.Register(RegisterInput{Email: email})
	if err != nil {
		return domain.User{}, false, err
	}
	return u, true, nil
}

func (s *Service) GetUser(id string) (domain.User, error) {
	u, ok := s.Store.GetUser(id)
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) UpdateProfile(id string, p ProfilePatch) (domain.User, error) {
	if err := validation.Struct(p); err != nil {
		return domain.User{}, err
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return domain.User{}, domain.ValidationErrors{{Field: "name", Message: "must not be blank"}}
	}
	return s.Store.UpdateUser(id, func(u *domain.User) error {
		if p.Name != nil {
			u.Name = strings.TrimSpace(*p.Name)
		}
		if p.Avatar != nil {
			u.Avatar = strings.TrimSpace(*p.Avatar)
		}
		if p.Phone != nil {
			u.Phone = strings.TrimSpace(*p.Phone)
		}
		if p.Bio != nil {
			u.Bio = strings.TrimSpace(*p.Bio)
		}
		if p.Location != nil {
			u.Location = *p.Location
		}
		return nil
	})
}
