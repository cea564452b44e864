package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/pkg/auth"
)

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Flow is the auth form currently shown.
type Flow string

const (
	FlowLogin    Flow = "login"
	FlowRegister Flow = "register"
)

const RegistrationMessage = "registration successful"

// DemoAccounts are the only credential pairs the gate accepts.
var DemoAccounts = map[string]string{
	"demo@example.com": "password",
	"admin@test.com":   "admin123",
}

// demoUser is the descriptor every successful login receives, with the submitted email.
var demoUser = model.User{ID: 1, FirstName: "Demo", LastName: "User"}

// Gate is the two-state demo authentication machine. It does not create accounts.
type Gate struct {
	mu      sync.Mutex
	state   State
	flow    Flow
	user    *model.User
	hashes  map[string][]byte
	session SessionStore
	issuer  *auth.Issuer
	delay   time.Duration
	log     *zap.Logger
}

func NewGate(session SessionStore, issuer *auth.Issuer, delay time.Duration, log *zap.Logger) (*Gate, error) {
	hashes := make(map[string][]byte, len(DemoAccounts))
	for email, password := range DemoAccounts {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			return nil, errors.Wrap(err, "bcrypt")
		}
		hashes[email] = h
	}
	return &Gate{
		state:   Unauthenticated,
		flow:    FlowLogin,
		hashes:  hashes,
		session: session,
		issuer:  issuer,
		delay:   delay,
		log:     log.Named("gate"),
	}, nil
}

func (g *Gate) wait(ctx context.Context) error {
	if g.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(g.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (g *Gate) match(email, password string) bool {
	h, ok := g.hashes[email]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(h, []byte(password)) == nil
}

// Login authenticates one of the demo accounts. A rejected attempt leaves the
// gate as it was.
func (g *Gate) Login(ctx context.Context, email, password string) (model.SignInResponse, error) {
	if err := g.wait(ctx); err != nil {
		return model.SignInResponse{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.match(email, password) {
		g.log.Info("login rejected", zap.String("email", email))
		return model.SignInResponse{}, errs.ErrInvalidCredentials
	}
	user := demoUser
	user.Email = email

	token, err := g.issuer.Issue(auth.Profile{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	if err != nil {
		return model.SignInResponse{}, errors.Wrap(err, "issue token")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return model.SignInResponse{}, errors.Wrap(err, "marshal user")
	}
	g.session.Set(SessionTokenKey, token)
	g.session.Set(SessionUserKey, string(raw))
	g.state = Authenticated
	g.flow = FlowLogin
	g.user = &user

	return model.SignInResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
	}, nil
}

func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = Unauthenticated
	g.user = nil
	g.session.Delete(SessionTokenKey, SessionUserKey)
}

func (g *Gate) ShowRegister() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.flow = FlowRegister
}

// Register always reports success and returns to the login flow. No account
// is created and the authentication state is untouched.
func (g *Gate) Register(ctx context.Context, req model.SignUpRequest) (model.MessageResponse, error) {
	if err := g.wait(ctx); err != nil {
		return model.MessageResponse{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.log.Info("register", zap.String("email", req.Email))
	g.flow = FlowLogin
	return model.MessageResponse{Message: RegistrationMessage}, nil
}

// Verify accepts only the token of the current session.
func (g *Gate) Verify(token string) (model.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Authenticated || g.user == nil {
		return model.User{}, errs.ErrUnauthenticated
	}
	current, ok := g.session.Get(SessionTokenKey)
	if !ok || current != token {
		return model.User{}, errs.ErrUnauthenticated
	}
	if _, err := g.issuer.Parse(token); err != nil {
		return model.User{}, errs.ErrUnauthenticated
	}
	return *g.user, nil
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) Flow() Flow {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.flow
}

func (g *Gate) IsAuthenticated() bool {
	return g.State() == Authenticated
}

func (g *Gate) CurrentUser() (model.User, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user == nil {
		return model.User{}, false
	}
	return *g.user, true
}
