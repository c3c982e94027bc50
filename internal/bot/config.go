package bot

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Auth struct {
		RedisURL string `toml:"redis_url"`
	} `toml:"auth"`
	Bot struct {
		Token    string  `toml:"token"`
		AdminIDs []int64 `toml:"admin_ids"`
	} `toml:"bot"`
	Database struct {
		DSN string `toml:"dsn"`
	} `toml:"database"`
	Signup struct {
		JoinLeadMinutes  int `toml:"join_lead_minutes"`
		LeaveLeadMinutes int `toml:"leave_lead_minutes"`
	} `toml:"signup"`
}

func ReadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is not specified in config")
	}
	if cfg.Signup.JoinLeadMinutes == 0 {
		cfg.Signup.JoinLeadMinutes = 60
	}
	if cfg.Signup.LeaveLeadMinutes == 0 {
		cfg.Signup.LeaveLeadMinutes = 120
	}

	return &cfg, nil
}
