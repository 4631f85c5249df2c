package suggest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"rummy-suggest/card"
	"rummy-suggest/internal/agent"
	"rummy-suggest/internal/game"
)

// HTTPHandler exposes the suggest pipeline over HTTP. Every response
// carries permissive CORS headers because the game client calls this
// service straight from the browser.
type HTTPHandler struct {
	service   *Service
	store     game.Store
	agentCfg  agent.Config
	agent     agent.Client
	storeMode string
}

type suggestRequest struct {
	GameID     string           `json:"gameId"`
	PlayerHand []card.Card      `json:"playerHand"`
	OpenDeck   []card.Card      `json:"openDeck"`
	GameState  gameStatePayload `json:"gameState"`
}

type gameStatePayload struct {
	JokerCard   *card.Card    `json:"jokerCard"`
	PlayerMelds [][]card.Card `json:"playerMelds"`
	GameStatus  string        `json:"gameStatus"`
}

type suggestResponse struct {
	Success    bool   `json:"success"`
	GameID     string `json:"gameId"`
	Suggestion string `json:"suggestion"`
	Timestamp  string `json:"timestamp"`
	Source     string `json:"source"`
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

func NewHTTPHandler(service *Service, store game.Store, agentClient agent.Client, agentCfg agent.Config, storeMode string) *HTTPHandler {
	return &HTTPHandler{
		service:   service,
		store:     store,
		agentCfg:  agentCfg,
		agent:     agentClient,
		storeMode: storeMode,
	}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/suggest", h.handleSuggest)
	mux.HandleFunc("/suggest/", h.handleSuggestForGame)
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/test/add-game", h.handleAddGame)
	mux.HandleFunc("/api/chat", h.handleChat)
}

func (h *HTTPHandler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	log.Printf("[Suggest] Processing suggestion request for game %s", req.GameID)

	result, err := h.service.Suggest(r.Context(), Request{
		GameID:     req.GameID,
		PlayerHand: req.PlayerHand,
		OpenDeck:   req.OpenDeck,
		JokerCard:  req.GameState.JokerCard,
		MeldCount:  len(req.GameState.PlayerMelds),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestResponse{
		Success:    true,
		GameID:     result.GameID,
		Suggestion: result.Suggestion,
		Timestamp:  result.Timestamp.Format(time.RFC3339),
		Source:     result.Source,
	})
}

func (h *HTTPHandler) handleSuggestForGame(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	gameID := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/suggest/"))
	if gameID == "" || strings.Contains(gameID, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	result, err := h.service.SuggestForGame(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, game.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{
				Error:     "Game not found",
				Timestamp: time.Now().Format(time.RFC3339),
			})
			return
		}
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestResponse{
		Success:    true,
		GameID:     result.GameID,
		Suggestion: result.Suggestion,
		Timestamp:  result.Timestamp.Format(time.RFC3339),
		Source:     result.Source,
	})
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	activeGames, err := h.store.Len(r.Context())
	if err != nil {
		activeGames = -1
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"service":         "Rummy Suggest API",
		"timestamp":       time.Now().Format(time.RFC3339),
		"bedrock_enabled": h.agent.Enabled(),
		"agent_id":        h.agentCfg.AgentID,
		"agent_alias_id":  h.agentCfg.AgentAliasID,
		"store_mode":      h.storeMode,
		"active_games":    activeGames,
	})
}

func (h *HTTPHandler) handleAddGame(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var state game.State
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if state.GameID == "" {
		writeError(w, http.StatusBadRequest, "gameId is required")
		return
	}
	if err := h.store.Put(r.Context(), state); err != nil {
		log.Printf("[Suggest] Add game failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store game")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Game " + state.GameID + " added successfully",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *HTTPHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = agent.NewSessionID()
	}

	reply, source, err := h.service.Advise(r.Context(), req.Message, sessionID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Success:   true,
		Response:  reply,
		SessionID: sessionID,
		Timestamp: time.Now().Format(time.RFC3339),
		Source:    source,
	})
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingGameID), errors.Is(err, ErrEmptyHand), errors.Is(err, ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[Suggest] Unexpected error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Internal server error",
			Message: "Failed to process suggestion request",
		})
	}
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
