package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/config"
	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/pkg/auth"
	"github.com/Astemirdum/catalog-service/pkg/circuit_breaker"
)

// remote is a client of another catalog backend speaking the books API.
type remote struct {
	log     *zap.Logger
	client  *http.Client
	baseURL string
	cb      circuit_breaker.CircuitBreaker

	email, password string
	mu              sync.Mutex
	token           string
}

func NewRemote(cfg config.Remote, log *zap.Logger) *remote {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = time.Minute
	}
	return &remote{
		log:      log.Named("remote"),
		client:   &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		cb:       circuit_breaker.New(100, time.Second, 0.2, 2),
		email:    cfg.Email,
		password: cfg.Password,
	}
}

func (r *remote) CB() circuit_breaker.CircuitBreaker {
	return r.cb
}

func bookPath(id string) string {
	return "/books/" + url.PathEscape(id)
}

func (r *remote) List(ctx context.Context) ([]model.Book, error) {
	var items []model.BookResponse
	if err := r.call(ctx, http.MethodGet, "/books", nil, &items); err != nil {
		return nil, err
	}
	books := make([]model.Book, 0, len(items))
	for i := range items {
		books = append(books, items[i].Book())
	}
	return books, nil
}

func (r *remote) Get(ctx context.Context, id string) (model.Book, error) {
	var resp model.BookResponse
	if err := r.call(ctx, http.MethodGet, bookPath(id), nil, &resp); err != nil {
		return model.Book{}, err
	}
	return resp.Book(), nil
}

func (r *remote) Add(ctx context.Context, fields model.BookFields) (model.Book, error) {
	var resp model.BookResponse
	if err := r.call(ctx, http.MethodPost, "/books", model.NewBookRequest(fields), &resp); err != nil {
		return model.Book{}, err
	}
	return resp.Book(), nil
}

func (r *remote) Update(ctx context.Context, id string, fields model.BookFields) (model.Book, error) {
	var resp model.BookResponse
	if err := r.call(ctx, http.MethodPut, bookPath(id), model.NewBookRequest(fields), &resp); err != nil {
		return model.Book{}, err
	}
	return resp.Book(), nil
}

func (r *remote) Remove(ctx context.Context, id string) error {
	return r.call(ctx, http.MethodDelete, bookPath(id), nil, nil)
}

func (r *remote) Stats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	if err := r.call(ctx, http.MethodGet, "/books/stats", nil, &stats); err != nil {
		return model.Stats{}, err
	}
	return stats, nil
}

func (r *remote) SignIn(ctx context.Context, email, password string) (model.SignInResponse, error) {
	var resp model.SignInResponse
	req := model.SignInRequest{Email: email, Password: password}
	if err := r.do(ctx, http.MethodPost, "/auth/signin", req, &resp, ""); err != nil {
		return model.SignInResponse{}, err
	}
	r.setToken(resp.AccessToken)
	return resp, nil
}

func (r *remote) SignUp(ctx context.Context, req model.SignUpRequest) (model.MessageResponse, error) {
	var resp model.MessageResponse
	if err := r.do(ctx, http.MethodPost, "/auth/signup", req, &resp, ""); err != nil {
		return model.MessageResponse{}, err
	}
	return resp, nil
}

func (r *remote) Close() {
	r.client.CloseIdleConnections()
}

func (r *remote) currentToken() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token
}

func (r *remote) setToken(token string) {
	r.mu.Lock()
	r.token = token
	r.mu.Unlock()
}

// call performs an authenticated request. Without stored credentials the
// Authorization header is simply omitted. A 401 triggers one fresh sign-in.
func (r *remote) call(ctx context.Context, method, path string, in, out any) error {
	if r.currentToken() == "" && r.email != "" {
		if _, err := r.SignIn(ctx, r.email, r.password); err != nil {
			r.log.Warn("sign in", zap.Error(err))
		}
	}
	err := r.do(ctx, method, path, in, out, r.currentToken())
	var apiErr *errs.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized && r.email != "" {
		r.setToken("")
		if _, signErr := r.SignIn(ctx, r.email, r.password); signErr != nil {
			return err
		}
		return r.do(ctx, method, path, in, out, r.currentToken())
	}
	return err
}

func (r *remote) do(ctx context.Context, method, path string, in, out any, token string) error {
	var clientErr error
	err := r.cb.Call(func() error {
		body := io.Reader(http.NoBody)
		if in != nil {
			b, err := json.Marshal(in)
			if err != nil {
				clientErr = err
				return nil
			}
			body = bytes.NewReader(b)
		}
		req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
		if err != nil {
			clientErr = err
			return nil
		}
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if token != "" {
			req.Header.Set(auth.AuthorizationHeader, auth.TokenType+" "+token)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return &errs.APIError{Message: err.Error()}
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return decodeError(resp)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			clientErr = decodeError(resp)
			return nil
		}
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			clientErr = &errs.APIError{Status: resp.StatusCode, Message: "decode response: " + err.Error()}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, circuit_breaker.ErrOpenCB) {
			return &errs.APIError{Status: http.StatusServiceUnavailable, Message: "catalog backend unavailable"}
		}
		r.log.Error("request", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	return clientErr
}

// decodeError surfaces the backend's message, falling back to the status code.
func decodeError(resp *http.Response) error {
	var payload struct {
		Message string           `json:"message"`
		Errors  errs.FieldErrors `json:"errors"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload) //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errs.ErrNotFound
	case resp.StatusCode == http.StatusUnprocessableEntity && len(payload.Errors) > 0:
		return &errs.ValidationError{Fields: payload.Errors}
	}
	msg := payload.Message
	if msg == "" {
		msg = errs.StatusMessage(resp.StatusCode)
	}
	return &errs.APIError{Status: resp.StatusCode, Message: msg}
}
