package memory

import (
	"context"

	"github.com/jhoicas/Materiales-api/internal/domain"
	"github.com/jhoicas/Materiales-api/internal/domain/entity"
	"github.com/jhoicas/Materiales-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct{ h *handle }

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.h.do(func(st *state) error {
		for _, u := range st.users {
			if u.Username == user.Username {
				return domain.ErrUsernameAlreadyTaken
			}
		}
		user.ID = st.nextID()
		if user.CreatedAt.IsZero() {
			user.CreatedAt = r.h.now()
		}
		user.UpdatedAt = user.CreatedAt
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.h.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

// GetByUsername devuelve nil si no existe.
func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.h.do(func(st *state) error {
		for _, u := range st.users {
			if u.Username == username {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}
