package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/kardemumma/internal/apperr"
	"github.com/shrimpsizemoose/kardemumma/internal/models"
)

const resetPassword = "changeme123"

// ErrBadCredentials is deliberately vague: callers must not learn whether the
// username or the password was wrong.
var ErrBadCredentials = errors.New("invalid credentials")

// AccountStore keeps login accounts in their own JSON file, apart from the
// course document. Seeds admin/ta1/student1 on first run.
type AccountStore struct {
	path string
	cost int
	mu   sync.Mutex
}

func NewAccountStore(path string, cost int) (*AccountStore, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	s := &AccountStore{path: path, cost: cost}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Info.Printf("Accounts file %s missing, seeding default accounts", path)
		if err := s.seed(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *AccountStore) seed() error {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	accounts := []models.Account{
		{Username: "admin", Hash: string(hash), Role: models.RoleAdmin},
		{Username: "ta1", Hash: string(hash), Role: models.RoleTA},
		{Username: "student1", Hash: string(hash), Role: models.RoleStudent, MustChange: true},
	}
	return s.save(accounts)
}

func (s *AccountStore) load() ([]models.Account, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Account{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file: %w", err)
	}

	var accounts []models.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file: %w", err)
	}
	return accounts, nil
}

func (s *AccountStore) save(accounts []models.Account) error {
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write accounts file: %w", err)
	}
	return nil
}

// Authenticate checks credentials and stamps lastLogin on success.
func (s *AccountStore) Authenticate(username, password string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range accounts {
		if accounts[i].Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(accounts[i].Hash), []byte(password)) != nil {
			return nil, ErrBadCredentials
		}
		now := time.Now().UTC()
		accounts[i].LastLogin = &now
		if err := s.save(accounts); err != nil {
			return nil, err
		}
		account := accounts[i]
		return &account, nil
	}

	return nil, ErrBadCredentials
}

// ChangePassword verifies the old password before storing the new hash and
// clearing the must-change flag.
func (s *AccountStore) ChangePassword(username, oldPassword, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return err
	}

	for i := range accounts {
		if accounts[i].Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(accounts[i].Hash), []byte(oldPassword)) != nil {
			return ErrBadCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		accounts[i].Hash = string(hash)
		accounts[i].MustChange = false
		return s.save(accounts)
	}

	return apperr.NotFound("user not found")
}

// ResetPassword sets the well-known reset password and forces a change on
// next login. Returns the password so the admin can hand it over.
func (s *AccountStore) ResetPassword(username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return "", err
	}

	for i := range accounts {
		if accounts[i].Username != username {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(resetPassword), s.cost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		accounts[i].Hash = string(hash)
		accounts[i].MustChange = true
		if err := s.save(accounts); err != nil {
			return "", err
		}
		return resetPassword, nil
	}

	return "", apperr.NotFound("user not found")
}

// GrantTA promotes an account to the ta role.
func (s *AccountStore) GrantTA(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return err
	}

	for i := range accounts {
		if accounts[i].Username != username {
			continue
		}
		if accounts[i].Role == models.RoleTA {
			return apperr.Conflict("user is already a TA")
		}
		accounts[i].Role = models.RoleTA
		return s.save(accounts)
	}

	return apperr.NotFound("user not found")
}

// RevokeTA demotes a ta account back to student.
func (s *AccountStore) RevokeTA(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return err
	}

	for i := range accounts {
		if accounts[i].Username != username {
			continue
		}
		if accounts[i].Role != models.RoleTA {
			return apperr.Conflict("user is not a TA")
		}
		accounts[i].Role = models.RoleStudent
		return s.save(accounts)
	}

	return apperr.NotFound("user not found")
}
