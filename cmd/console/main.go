package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"consolejack/internal/config"
	"consolejack/internal/console"
	"consolejack/internal/database"
	"consolejack/internal/game"
	"consolejack/internal/player"
)

func main() {
	difficulty := flag.String("difficulty", "", "easy, normal or hard (replaces DIFFICULTY, env overrides still apply)")
	seed := flag.Int64("seed", 0, "random seed, 0 picks one from the clock")
	flag.Parse()

	cfg, err := config.LoadDifficulty(*difficulty)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	engine, err := game.New(cfg.Rules, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	session, err := console.NewSession(engine, console.NewUI(os.Stdin, os.Stdout), player.NewRepository(db.DB), cfg.Difficulty)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	if err := session.Run(); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}
