package app

import (
	"fmt"

	"github.com/shrimpsizemoose/kardemumma/internal/grading"
	"github.com/shrimpsizemoose/kardemumma/internal/registry"
	"github.com/shrimpsizemoose/kardemumma/internal/schedule"
	"github.com/shrimpsizemoose/kardemumma/internal/store"
)

type Service struct {
	Config   *Config
	Store    store.DocStore
	Accounts *AccountStore
	Auth     *Auth
	Registry *registry.Registry
	Schedule *schedule.Engine
	Grading  *grading.Grader
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	docStore, err := NewStore(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	accounts, err := NewAccountStore(config.Auth.AccountsFile, config.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to init accounts: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	return &Service{
		Config:   config,
		Store:    docStore,
		Accounts: accounts,
		Auth:     auth,
		Registry: registry.NewRegistry(docStore),
		Schedule: schedule.NewEngine(docStore, config.JoinLead(), config.LeaveLead()),
		Grading:  grading.NewGrader(docStore),
	}, nil
}

func (s *Service) Close() error {
	if err := s.Store.Close(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}
