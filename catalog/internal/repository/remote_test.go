package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/config"
	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

const backendBook = `{"id":4,"title":"Xala","author":"Ousmane Sembène","isbn":"9782070415823",` +
	`"category":"Littérature","status":"RESERVED","description":null,"publishYear":1973,"rating":4.4,` +
	`"createdAt":"2024-01-02T03:04:05Z","updatedAt":"2024-01-02T03:04:05Z"}`

type backend struct {
	*httptest.Server
	mu         sync.Mutex
	lastAuth   string
	lastMethod string
	lastBody   map[string]any
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		var req model.SignInRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "password" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Identifiants incorrects"}`))
			return
		}
		_, _ = w.Write([]byte(`{"accessToken":"remote-token","tokenType":"Bearer","id":1,"email":"demo@example.com","firstName":"Demo","lastName":"User"}`))
	})
	mux.HandleFunc("/api/books", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.lastAuth = r.Header.Get("Authorization")
		b.lastMethod = r.Method
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte("[" + backendBook + "]"))
		case http.MethodPost:
			b.lastBody = map[string]any{}
			_ = json.NewDecoder(r.Body).Decode(&b.lastBody)
			if b.lastBody["title"] == "" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{"message":"validation failed","errors":{"title":"title is required"}}`))
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(backendBook))
		}
	})
	mux.HandleFunc("/api/books/stats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalBooks":5,"availableBooks":3,"borrowedBooks":1,"reservedBooks":1,"averageRating":4.5}`))
	})
	mux.HandleFunc("/api/books/4", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.lastAuth = r.Header.Get("Authorization")
		b.lastMethod = r.Method
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(backendBook))
	})
	mux.HandleFunc("/api/books/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	})
	mux.HandleFunc("/api/books/teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	mux.HandleFunc("/api/books/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"database is down"}`))
	})
	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

func (b *backend) seen() (auth, method string, body map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAuth, b.lastMethod, b.lastBody
}

func newTestRemote(b *backend, email, password string) *remote {
	return NewRemote(config.Remote{
		BaseURL:  b.URL + "/api/",
		Timeout:  time.Second,
		Email:    email,
		Password: password,
	}, zap.NewNop())
}

func TestRemote_List(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	r := newTestRemote(b, "demo@example.com", "password")

	books, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "4", books[0].ID)
	require.Equal(t, model.StatusReserved, books[0].Status)
	require.Equal(t, "", books[0].Description)
	require.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), books[0].CreatedAt.UTC())
	auth, _, _ := b.seen()
	require.Equal(t, "Bearer remote-token", auth)
}

func TestRemote_NoTokenOmitsHeader(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	r := newTestRemote(b, "", "")

	_, err := r.Get(context.Background(), "4")
	require.NoError(t, err)
	auth, _, _ := b.seen()
	require.Empty(t, auth)
}

func TestRemote_AddSendsUpperStatus(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	r := newTestRemote(b, "demo@example.com", "password")

	f := DemoBooks()[3]
	book, err := r.Add(context.Background(), f)
	require.NoError(t, err)
	require.Equal(t, "4", book.ID)
	_, _, body := b.seen()
	require.Equal(t, "RESERVED", body["status"])
	require.Equal(t, model.StatusReserved, book.Status)
}

func TestRemote_Errors(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	r := newTestRemote(b, "demo@example.com", "password")
	ctx := context.Background()

	_, err := r.Get(ctx, "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)

	var apiErr *errs.APIError
	_, err = r.Get(ctx, "teapot")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "HTTP error! status: 418", apiErr.Message)
	require.ErrorIs(t, err, errs.ErrNetworkOrServer)

	_, err = r.Get(ctx, "broken")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.Status)
	require.Equal(t, "database is down", apiErr.Message)

	f := DemoBooks()[0]
	f.Title = ""
	_, err = r.Add(ctx, f)
	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "title is required", ve.Fields["title"])
}

func TestRemote_RemoveAndStats(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	r := newTestRemote(b, "demo@example.com", "password")
	ctx := context.Background()

	require.NoError(t, r.Remove(ctx, "4"))
	_, method, _ := b.seen()
	require.Equal(t, http.MethodDelete, method)

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, model.Stats{TotalBooks: 5, AvailableBooks: 3, BorrowedBooks: 1, ReservedBooks: 1, AverageRating: 4.5}, stats)
}

func TestRemote_SignInRejected(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	r := newTestRemote(b, "", "")

	_, err := r.SignIn(context.Background(), "demo@example.com", "wrong")
	var apiErr *errs.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "Identifiants incorrects", apiErr.Message)
	require.Empty(t, r.currentToken())
}

func TestRemote_Unreachable(t *testing.T) {
	t.Parallel()
	b := newBackend(t)
	r := newTestRemote(b, "", "")
	b.Close()

	_, err := r.List(context.Background())
	require.ErrorIs(t, err, errs.ErrNetworkOrServer)
}
