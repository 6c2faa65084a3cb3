package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/eugeniogarcia/django/internal/user"
)

var ErrUserExists = errors.New("nom d'utilisateur déjà utilisé")

// CreateSuperuser crée un compte administrateur (commande createsuperuser).
func CreateSuperuser(ctx context.Context, users *user.Repository, username, email, password string) (*user.User, error) {
	if username == "" || len(password) < 8 {
		return nil, errors.New("username requis et mot de passe d'au moins 8 caractères")
	}
	if users.ExistsByUsername(ctx, username) {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, username)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, username)
		}
		return nil, err
	}
	return u, nil
}
