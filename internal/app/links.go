package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const linksKey = "links:telegram"

// LinkManager maps telegram usernames to account usernames so the bot can
// answer /signups without its own login flow.
type LinkManager struct {
	redis *redis.Client
}

func NewLinkManager(url string) (*LinkManager, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &LinkManager{redis: client}, nil
}

func (lm *LinkManager) SaveLink(ctx context.Context, tgUsername, username string) error {
	return lm.redis.HSet(ctx, linksKey, tgUsername, username).Err()
}

func (lm *LinkManager) FetchUsername(ctx context.Context, tgUsername string) (string, error) {
	username, err := lm.redis.HGet(ctx, linksKey, tgUsername).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("no account linked for telegram user %s", tgUsername)
	}
	return username, err
}

func (lm *LinkManager) FetchAllLinks(ctx context.Context) (map[string]string, error) {
	return lm.redis.HGetAll(ctx, linksKey).Result()
}

func (lm *LinkManager) Close() error {
	if lm.redis != nil {
		return lm.redis.Close()
	}
	return nil
}
