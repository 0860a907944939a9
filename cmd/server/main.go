package main

import (
	"log"
	"net/http"

	"doudizhu-game/internal/ai"
	"doudizhu-game/internal/config"
	"doudizhu-game/internal/database"
	"doudizhu-game/internal/server"
)

func main() {
	log.Println("Starting Dou Dizhu server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db := database.New(cfg.DatabasePath)
	defer db.Close()

	var llm *ai.LLMConfig
	if cfg.LLM.APIKey != "" {
		llm = &ai.LLMConfig{
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
		}
		log.Printf("LLM seat enabled with model %s.", cfg.LLM.Model)
	}

	hub := server.NewHub(db, ai.Difficulty(cfg.AIDifficulty), llm)
	go hub.Run()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		server.ServeWs(hub, w, r)
	})

	fs := http.FileServer(http.Dir("web/static"))
	http.Handle("/", fs)

	server.HandleRoutes(db)

	log.Printf("Listening on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, nil))
}
