package main

import (
	"flag"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/kardemumma/internal/app"
	"github.com/shrimpsizemoose/kardemumma/internal/bot"
	"github.com/shrimpsizemoose/kardemumma/internal/registry"
	"github.com/shrimpsizemoose/kardemumma/internal/schedule"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	cfg, err := bot.ReadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	docStore, err := app.NewStore(cfg.Database.DSN)
	if err != nil {
		logger.Error.Fatalf("Failed to create store: %v", err)
	}
	defer docStore.Close()

	links, err := app.NewLinkManager(cfg.Auth.RedisURL)
	if err != nil {
		logger.Error.Fatalf("Failed to connect account links: %v", err)
	}
	defer links.Close()

	joinLead := time.Duration(cfg.Signup.JoinLeadMinutes) * time.Minute
	leaveLead := time.Duration(cfg.Signup.LeaveLeadMinutes) * time.Minute

	b, err := bot.New(cfg, links, schedule.NewEngine(docStore, joinLead, leaveLead), registry.NewRegistry(docStore))
	if err != nil {
		logger.Error.Fatalf("Failed to create bot: %v", err)
	}

	logger.Info.Println("Bot initialized successfully")
	if err := b.Start(); err != nil {
		logger.Error.Fatalf("Bot error: %v", err)
	}
}
