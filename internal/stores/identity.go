package stores

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"minimarket/internal/domain"
	"minimarket/internal/kv"
)

// Identity owns the user and credential collections and the process-wide
// session. Catalog, cart and ledger operations receive the session user
// explicitly rather than reaching into ambient state.
type Identity struct {
	mu   sync.Mutex
	kv   kv.Store
	user *domain.User
}

func NewIdentity(store kv.Store) *Identity { return &Identity{kv: store} }

// Bootstrap restores a session at process start when both the token and the
// user snapshot survived the previous run. Absence of either leaves the
// session empty; it is not an error.
func (s *Identity) Bootstrap() (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok, err := s.kv.Get(keyUserToken)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	if !ok || len(token) == 0 {
		return nil, nil
	}
	raw, ok, err := s.kv.Get(keyUser)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	if !ok {
		return nil, nil
	}
	u, err := decodeUser(raw)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	s.user = u
	return u, nil
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
	Phone    string
	Address  string
	Country  string
	State    string
	City     string
}

// Register fails with ErrDuplicateIdentity when the username or email is
// already taken (case-sensitive, checked against all credential records).
// On success both collections are persisted and the new user becomes the
// current session.
func (s *Identity) Register(p RegisterParams) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := loadSlice[domain.Credential](s.kv, keyCredentials)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	for _, c := range creds {
		if c.Username == p.Username || c.Email == p.Email {
			return nil, ErrDuplicateIdentity
		}
	}

	u := domain.User{
		ID:        uuid.NewString(),
		Username:  p.Username,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
		Country:   p.Country,
		State:     p.State,
		City:      p.City,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	all, err := loadSlice[domain.User](s.kv, keyAllUsers)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := saveSlice(s.kv, keyAllUsers, append(all, u)); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	creds = append(creds, domain.Credential{
		UserID:   u.ID,
		Username: p.Username,
		Email:    p.Email,
		Password: p.Password, // plaintext by design of the source system
	})
	if err := saveSlice(s.kv, keyCredentials, creds); err != nil {
		// no user record may survive without its credential; put the
		// previous user collection back
		_ = saveSlice(s.kv, keyAllUsers, all)
		return nil, fmt.Errorf("register: %w", err)
	}

	if err := s.establish(&u); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &u, nil
}

// Login is a development stub: any non-empty pair is accepted and a session
// user with placeholder profile fields is synthesized. No lookup against
// stored credentials happens here.
func (s *Identity) Login(username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u := domain.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     username + "@minimarket.com",
		Phone:     "1234567890",
		Address:   "Default address",
		Country:   "Mexico",
		State:     "Default state",
		City:      "Default city",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.establish(&u); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &u, nil
}

type ProfileUpdate struct {
	Email   string
	Phone   string
	Address string
	Country string
	State   string
	City    string
}

// UpdateProfile merges the provided (non-empty) fields into the session
// user and persists the merged snapshot. Seller fields already embedded in
// existing products are not touched; that staleness is accepted.
func (s *Identity) UpdateProfile(p ProfileUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, ErrNoSession
	}
	u := *s.user
	if p.Email != "" {
		u.Email = p.Email
	}
	if p.Phone != "" {
		u.Phone = p.Phone
	}
	if p.Address != "" {
		u.Address = p.Address
	}
	if p.Country != "" {
		u.Country = p.Country
	}
	if p.State != "" {
		u.State = p.State
	}
	if p.City != "" {
		u.City = p.City
	}
	raw, err := encodeUser(&u)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if err := s.kv.Set(keyUser, raw); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.user = &u
	return &u, nil
}

// Logout clears the session keys; the user and credential collections stay.
func (s *Identity) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(keyUserToken); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := s.kv.Remove(keyUser); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.user = nil
	return nil
}

// Current returns a copy of the session user, or ok=false when signed out.
func (s *Identity) Current() (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, false
	}
	u := *s.user
	return &u, true
}

func (s *Identity) establish(u *domain.User) error {
	if err := s.kv.Set(keyUserToken, []byte(u.ID)); err != nil {
		return err
	}
	raw, err := encodeUser(u)
	if err != nil {
		return err
	}
	if err := s.kv.Set(keyUser, raw); err != nil {
		return err
	}
	s.user = u
	return nil
}
