package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"rummy-suggest/internal/agent"
	"rummy-suggest/internal/game"
	"rummy-suggest/internal/gateway"
	"rummy-suggest/internal/suggest"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Printf("[Server] Loaded environment from .env")
	}

	store, storeMode, err := game.NewStoreFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init game store: %v", err)
	}
	defer store.Close()

	agentCfg := agent.ConfigFromEnv()
	agentClient, err := agent.NewBedrockClient(context.Background(), agentCfg)
	if err != nil {
		log.Fatalf("[Server] Failed to init agent client: %v", err)
	}

	picker := suggest.NewPicker(rand.New(rand.NewSource(time.Now().UnixNano())))
	service := suggest.NewService(store, agentClient, picker)
	suggestHTTP := suggest.NewHTTPHandler(service, store, agentClient, agentCfg, storeMode)
	gw := gateway.New(service)

	mux := http.NewServeMux()
	suggestHTTP.RegisterRoutes(mux)
	mux.HandleFunc("/ws", gw.HandleWebSocket)

	addr := ":" + portFromEnv()
	log.Printf("[Server] Store mode: %s", storeMode)
	log.Printf("[Server] Bedrock enabled: %v", agentClient.Enabled())
	log.Printf("[Server] Starting suggest server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}

func portFromEnv() string {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		return "8080"
	}
	return port
}
