package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotConfigured = errors.New("agent client not configured")

// Client is the hosted-agent contract consumed by the suggest
// pipeline. Invoke relays one prompt under one session and returns
// the agent's full completion text.
type Client interface {
	Invoke(ctx context.Context, sessionID, inputText string) (string, error)
	Enabled() bool
}

// Config carries the agent identifiers and region. Credentials come
// from the standard AWS environment/credential chain; nothing here
// is a secret. The default identifiers match the demo agent and are
// overridable via env.
type Config struct {
	AgentID      string
	AgentAliasID string
	Region       string
	UseBedrock   bool
}

const (
	defaultAgentID      = "AJBHXXILZN"
	defaultAgentAliasID = "AVKP1ITZAA"
	defaultRegion       = "us-east-1"
)

func ConfigFromEnv() Config {
	return Config{
		AgentID:      envOrDefault("BEDROCK_AGENT_ID", defaultAgentID),
		AgentAliasID: envOrDefault("BEDROCK_AGENT_ALIAS_ID", defaultAgentAliasID),
		Region:       envOrDefault("AWS_REGION", defaultRegion),
		UseBedrock:   !strings.EqualFold(strings.TrimSpace(os.Getenv("USE_BEDROCK")), "false"),
	}
}

// HasCredentials reports whether explicit AWS credentials are present
// in the environment. Without them the live path is guaranteed to
// fail, so the service skips the round trip entirely.
func (c Config) HasCredentials() bool {
	return strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID")) != "" &&
		strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY")) != ""
}

// NewSessionID generates a session identifier unique across rapid
// successive calls: millisecond timestamp plus a random fragment.
func NewSessionID() string {
	return fmt.Sprintf("session-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
