package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"consolejack/internal/game"
)

// DefaultDatabasePath is a shared in-memory SQLite database: the ledger
// lives only as long as the process.
const DefaultDatabasePath = "file:consolejack?mode=memory&cache=shared"

type Config struct {
	BotToken     string
	DatabasePath string
	Difficulty   string
	Seed         int64
	Rules        game.Rules
}

// Preset returns the rules for a difficulty name: easy, normal or hard.
func Preset(name string) (game.Rules, error) {
	r := game.DefaultRules()

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "easy":
		r.AggressiveDealer = false
		r.StartingChips = 150
		r.TargetChips = 300
	case "", "normal":
		r.AggressiveDealer = false
		r.StartingChips = 100
		r.TargetChips = 250
	case "hard":
		r.AggressiveDealer = true
		r.StartingChips = 100
		r.MinimumBet = 20
		r.TargetChips = 300
	default:
		return game.Rules{}, fmt.Errorf("%w: unknown difficulty %q", game.ErrInvalidConfiguration, name)
	}

	return r, nil
}

// Load reads a .env file when present, then the environment. Individual
// variables override the difficulty preset.
func Load() (*Config, error) {
	return LoadDifficulty("")
}

// LoadDifficulty is Load with the preset chosen by the caller instead of
// DIFFICULTY. An empty difficulty falls back to the environment.
func LoadDifficulty(difficulty string) (*Config, error) {
	godotenv.Load()

	if difficulty == "" {
		difficulty = os.Getenv("DIFFICULTY")
	}
	if difficulty == "" {
		difficulty = "normal"
	}

	rules, err := Preset(difficulty)
	if err != nil {
		return nil, err
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = DefaultDatabasePath
	}

	cfg := &Config{
		BotToken:     os.Getenv("BOT_TOKEN"),
		DatabasePath: dbPath,
		Difficulty:   difficulty,
		Rules:        rules,
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"DECK_SIZE", &cfg.Rules.DeckSize},
		{"RESHUFFLE_THRESHOLD", &cfg.Rules.ReshuffleThreshold},
		{"STARTING_CHIPS", &cfg.Rules.StartingChips},
		{"MIN_BET", &cfg.Rules.MinimumBet},
		{"TARGET_CHIPS", &cfg.Rules.TargetChips},
	}
	for _, v := range ints {
		if err := intEnv(v.key, v.dst); err != nil {
			return nil, err
		}
	}

	if raw := os.Getenv("AGGRESSIVE_DEALER"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: AGGRESSIVE_DEALER=%q", game.ErrInvalidConfiguration, raw)
		}
		cfg.Rules.AggressiveDealer = b
	}

	if raw := os.Getenv("SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: SEED=%q", game.ErrInvalidConfiguration, raw)
		}
		cfg.Seed = seed
	}

	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func intEnv(key string, dst *int) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a number", game.ErrInvalidConfiguration, key, raw)
	}
	*dst = n
	return nil
}
