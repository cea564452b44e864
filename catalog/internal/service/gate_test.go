package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/pkg/auth"
)

func newTestGate(t *testing.T, delay time.Duration) (*Gate, *memorySession) {
	t.Helper()
	session := NewMemorySession()
	g, err := NewGate(session, auth.NewIssuer("test-key", time.Hour), delay, zap.NewNop())
	require.NoError(t, err)
	return g, session
}

func TestGate_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g, session := newTestGate(t, 0)
	require.Equal(t, Unauthenticated, g.State())

	resp, err := g.Login(ctx, "demo@example.com", "password")
	require.NoError(t, err)
	require.Equal(t, Authenticated, g.State())
	require.True(t, g.IsAuthenticated())
	require.Equal(t, auth.TokenType, resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)

	want := model.User{ID: 1, Email: "demo@example.com", FirstName: "Demo", LastName: "User"}
	require.Equal(t, want, resp.User())
	user, ok := g.CurrentUser()
	require.True(t, ok)
	require.Equal(t, want, user)

	token, ok := session.Get(SessionTokenKey)
	require.True(t, ok)
	require.Equal(t, resp.AccessToken, token)
	raw, ok := session.Get(SessionUserKey)
	require.True(t, ok)
	var stored model.User
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Equal(t, want, stored)
}

func TestGate_LoginAdmin(t *testing.T) {
	t.Parallel()
	g, _ := newTestGate(t, 0)

	resp, err := g.Login(context.Background(), "admin@test.com", "admin123")
	require.NoError(t, err)
	require.Equal(t, "admin@test.com", resp.Email)
	require.Equal(t, "Demo", resp.FirstName)
}

func TestGate_LoginRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown account", email: "wrong@x.com", password: "x"},
		{name: "wrong password", email: "demo@example.com", password: "admin123"},
		{name: "swapped pair", email: "admin@test.com", password: "password"},
		{name: "case differs", email: "Demo@example.com", password: "password"},
		{name: "empty", email: "", password: ""},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			g, session := newTestGate(t, 0)
			_, err := g.Login(ctx, test.email, test.password)
			require.ErrorIs(t, err, errs.ErrInvalidCredentials)
			require.Equal(t, Unauthenticated, g.State())
			_, ok := session.Get(SessionTokenKey)
			require.False(t, ok)
		})
	}
}

func TestGate_FailedLoginKeepsSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g, _ := newTestGate(t, 0)

	resp, err := g.Login(ctx, "demo@example.com", "password")
	require.NoError(t, err)

	_, err = g.Login(ctx, "wrong@x.com", "x")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	require.Equal(t, Authenticated, g.State())

	_, err = g.Verify(resp.AccessToken)
	require.NoError(t, err)
}

func TestGate_Logout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g, session := newTestGate(t, 0)

	resp, err := g.Login(ctx, "demo@example.com", "password")
	require.NoError(t, err)

	g.Logout()
	require.Equal(t, Unauthenticated, g.State())
	_, ok := g.CurrentUser()
	require.False(t, ok)
	_, ok = session.Get(SessionTokenKey)
	require.False(t, ok)
	_, ok = session.Get(SessionUserKey)
	require.False(t, ok)

	_, err = g.Verify(resp.AccessToken)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestGate_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g, session := newTestGate(t, 0)

	g.ShowRegister()
	require.Equal(t, FlowRegister, g.Flow())

	msg, err := g.Register(ctx, model.SignUpRequest{
		Email:     "new@user.com",
		Password:  "secret1",
		FirstName: "New",
		LastName:  "User",
	})
	require.NoError(t, err)
	require.Equal(t, RegistrationMessage, msg.Message)
	require.Equal(t, FlowLogin, g.Flow())
	require.Equal(t, Unauthenticated, g.State())
	_, ok := session.Get(SessionTokenKey)
	require.False(t, ok)

	_, err = g.Login(ctx, "new@user.com", "secret1")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestGate_Verify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g, _ := newTestGate(t, 0)

	_, err := g.Verify("anything")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	first, err := g.Login(ctx, "demo@example.com", "password")
	require.NoError(t, err)
	second, err := g.Login(ctx, "admin@test.com", "admin123")
	require.NoError(t, err)
	require.NotEqual(t, first.AccessToken, second.AccessToken)

	_, err = g.Verify(first.AccessToken)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)

	user, err := g.Verify(second.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "admin@test.com", user.Email)

	other := auth.NewIssuer("other-key", time.Hour)
	forged, err := other.Issue(auth.Profile{ID: 1, Email: "admin@test.com"})
	require.NoError(t, err)
	_, err = g.Verify(forged)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestGate_DelayHonoursContext(t *testing.T) {
	t.Parallel()
	g, _ := newTestGate(t, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Login(ctx, "demo@example.com", "password")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, Unauthenticated, g.State())

	_, err = g.Register(ctx, model.SignUpRequest{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestGate_Delay(t *testing.T) {
	t.Parallel()
	g, _ := newTestGate(t, 20*time.Millisecond)

	start := time.Now()
	_, err := g.Login(context.Background(), "demo@example.com", "password")
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
