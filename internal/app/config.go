package app

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type GSheetConfig struct {
	CredentialsPath string `toml:"credentials_path"`
	Schedule        string `toml:"schedule"`
	SheetID         string `toml:"sheet_id"`
	SheetName       string `toml:"sheet_name"`
	UsernamesRange  string `toml:"usernames_range"`
	MarksColumn     string `toml:"marks_column"`
	TimestampRange  string `toml:"timestamp_range"`
}

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		JWTSecret       string `toml:"jwt_secret"`
		TokenTTLMinutes int    `toml:"token_ttl_minutes"`
		AccountsFile    string `toml:"accounts_file"`
		BcryptCost      int    `toml:"bcrypt_cost"`
	} `toml:"auth"`

	Database struct {
		DSN string `toml:"dsn"`
	} `toml:"database"`

	Signup struct {
		JoinLeadMinutes  int `toml:"join_lead_minutes"`
		LeaveLeadMinutes int `toml:"leave_lead_minutes"`
	} `toml:"signup"`

	EmojiVariants []string `toml:"emoji_variants"`

	GSheet map[string][]GSheetConfig `toml:"gsheet"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Database.DSN == "" {
		config.Database.DSN = "data/db.json"
	}
	if config.Auth.TokenTTLMinutes == 0 {
		config.Auth.TokenTTLMinutes = 120
	}
	if config.Auth.AccountsFile == "" {
		config.Auth.AccountsFile = "data/users.json"
	}
	if config.Signup.JoinLeadMinutes == 0 {
		config.Signup.JoinLeadMinutes = 60
	}
	if config.Signup.LeaveLeadMinutes == 0 {
		config.Signup.LeaveLeadMinutes = 120
	}

	logger.Debug.Printf("Loaded signup config: %+v", config.Signup)

	return &config, nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

func (c *Config) JoinLead() time.Duration {
	return time.Duration(c.Signup.JoinLeadMinutes) * time.Minute
}

func (c *Config) LeaveLead() time.Duration {
	return time.Duration(c.Signup.LeaveLeadMinutes) * time.Minute
}
