package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/ports"
)

var _ ports.AuthService = (*HTTPAuthService)(nil)

type HTTPAuthService struct {
	rest restClient
}

func NewHTTPAuthService(baseURL string, hc *http.Client) *HTTPAuthService {
	return &HTTPAuthService{rest: newRestClient(baseURL, hc, "")}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *HTTPAuthService) Login(ctx context.Context, email, password string) (entity.Session, error) {
	return s.authenticate(ctx, "/auth/login", loginRequest{Email: email, Password: password})
}

func (s *HTTPAuthService) Register(ctx context.Context, nombre, email, password string) (entity.Session, error) {
	return s.authenticate(ctx, "/auth/register", registerRequest{Nombre: nombre, Email: email, Password: password})
}

func (s *HTTPAuthService) authenticate(ctx context.Context, path string, body any) (entity.Session, error) {
	var sess entity.Session
	err := s.rest.postJSON(ctx, path, body, &sess)
	if err == nil {
		return sess, nil
	}

	var serverErr *entity.ServerError
	if errors.As(err, &serverErr) {
		return entity.Session{}, &entity.AuthError{Message: detailMessage(serverErr.Body), Err: err}
	}
	return entity.Session{}, &entity.AuthError{Message: err.Error(), Err: err}
}

// detailMessage extracts the string "detail" field of an error body, or the
// generic message when there is none.
func detailMessage(body string) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return "Error"
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil || detail == "" {
		return "Error"
	}
	return detail
}
