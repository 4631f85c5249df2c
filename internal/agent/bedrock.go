package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/smithy-go"
)

const invokeTimeout = 30 * time.Second

// BedrockClient relays prompts to an AWS Bedrock Agent. The agent
// streams its completion; Invoke concatenates the chunk bytes into
// one string before returning.
type BedrockClient struct {
	client  *bedrockagentruntime.Client
	cfg     Config
	enabled bool
}

func NewBedrockClientFromEnv(ctx context.Context) (*BedrockClient, error) {
	return NewBedrockClient(ctx, ConfigFromEnv())
}

func NewBedrockClient(ctx context.Context, cfg Config) (*BedrockClient, error) {
	enabled := cfg.UseBedrock && cfg.AgentID != "" && cfg.AgentAliasID != "" && cfg.HasCredentials()
	if !enabled {
		log.Printf("[Agent] Bedrock disabled (USE_BEDROCK=%v, credentials=%v), serving fallback responses",
			cfg.UseBedrock, cfg.HasCredentials())
		return &BedrockClient{cfg: cfg}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	log.Printf("[Agent] Bedrock Agent Runtime client initialized (agent=%s alias=%s region=%s)",
		cfg.AgentID, cfg.AgentAliasID, cfg.Region)
	return &BedrockClient{
		client:  bedrockagentruntime.NewFromConfig(awsCfg),
		cfg:     cfg,
		enabled: true,
	}, nil
}

func (c *BedrockClient) Enabled() bool {
	return c != nil && c.enabled
}

// Invoke calls the agent once, retrying a single time on transient
// failures. Permanent failures (unknown agent, denied access) return
// immediately so the caller can fall back without burning the retry.
func (c *BedrockClient) Invoke(ctx context.Context, sessionID, inputText string) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}

	completion, err := c.invokeOnce(ctx, sessionID, inputText)
	if err == nil {
		return completion, nil
	}
	if isPermanent(err) || ctx.Err() != nil {
		return "", err
	}

	log.Printf("[Agent] Transient invoke error, retrying once: %v", err)
	return c.invokeOnce(ctx, sessionID, inputText)
}

func (c *BedrockClient) invokeOnce(ctx context.Context, sessionID, inputText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, invokeTimeout)
	defer cancel()

	out, err := c.client.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(c.cfg.AgentID),
		AgentAliasId: aws.String(c.cfg.AgentAliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(inputText),
	})
	if err != nil {
		return "", fmt.Errorf("invoke agent: %w", err)
	}

	stream := out.GetStream()
	defer stream.Close()

	var sb strings.Builder
	for event := range stream.Events() {
		if chunk, ok := event.(*types.ResponseStreamMemberChunk); ok {
			sb.Write(chunk.Value.Bytes)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("read completion stream: %w", err)
	}
	return sb.String(), nil
}

// isPermanent classifies agent errors that retrying cannot fix.
func isPermanent(err error) bool {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return true
	}
	var denied *types.AccessDeniedException
	if errors.As(err, &denied) {
		return true
	}
	var validation *types.ValidationException
	if errors.As(err, &validation) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException", "AccessDeniedException", "UnrecognizedClientException":
			return true
		}
	}
	return false
}
