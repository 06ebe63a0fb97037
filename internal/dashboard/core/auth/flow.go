// Package auth implements the login/register form flow that produces a
// session.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/ports"
)

type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// DefaultNombre is used when registering without a name.
const DefaultNombre = "Usuario"

// GenericMessage is shown when the server gives no detail.
const GenericMessage = "Error"

type Credentials struct {
	Nombre   string `json:"nombre,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Flow struct {
	svc ports.AuthService

	mu   sync.Mutex
	mode Mode
}

func NewFlow(svc ports.AuthService) *Flow {
	return &Flow{svc: svc, mode: ModeLogin}
}

func (f *Flow) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// SetMode selects a mode explicitly. Unknown modes are ignored.
func (f *Flow) SetMode(m Mode) {
	if m != ModeLogin && m != ModeRegister {
		return
	}
	f.mu.Lock()
	f.mode = m
	f.mu.Unlock()
}

// Toggle switches between login and register and returns the new mode.
func (f *Flow) Toggle() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.mode == ModeLogin {
		f.mode = ModeRegister
	} else {
		f.mode = ModeLogin
	}
	return f.mode
}

// Submit authenticates in the current mode. Every failure is returned as an
// *entity.AuthError.
func (f *Flow) Submit(ctx context.Context, creds Credentials) (entity.Session, error) {
	var (
		sess entity.Session
		err  error
	)

	switch f.Mode() {
	case ModeRegister:
		nombre := creds.Nombre
		if strings.TrimSpace(nombre) == "" {
			nombre = DefaultNombre
		}
		sess, err = f.svc.Register(ctx, nombre, creds.Email, creds.Password)
	default:
		sess, err = f.svc.Login(ctx, creds.Email, creds.Password)
	}

	if err != nil {
		var authErr *entity.AuthError
		if errors.As(err, &authErr) {
			return entity.Session{}, authErr
		}
		return entity.Session{}, &entity.AuthError{Message: err.Error(), Err: err}
	}
	if !sess.Valid() {
		return entity.Session{}, &entity.AuthError{Message: GenericMessage}
	}
	return sess, nil
}
