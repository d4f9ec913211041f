package openai

//go:generate go run go.uber.org/mock/mockgen -source=./openai.go -destination=./mocks/openai_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"innkeep/config"
	"innkeep/internal/domains/command/model"

	"github.com/rs/zerolog/log"
)

const (
	defaultBaseURL        = "https://api.openai.com/v1"
	defaultModel          = "gpt-3.5-turbo"
	defaultTimeoutSeconds = 15

	maxTokens   = 200
	temperature = 0.1
)

const systemPrompt = `You are a hotel management assistant. Extract structured commands from WhatsApp messages.

Return JSON in this format:
{
  "action": "block_room|unblock_room|book_room|check_in|check_out|room_status|revenue_check|occupancy_check|unknown",
  "room": "room_number_if_mentioned",
  "guest_name": "guest_name_if_mentioned",
  "start_date": "YYYY-MM-DD_if_mentioned",
  "end_date": "YYYY-MM-DD_if_mentioned",
  "check_in_time": "HH:MM_if_mentioned",
  "check_out_time": "HH:MM_if_mentioned",
  "guest_phone": "phone_number_if_mentioned",
  "details": "any_additional_details"
}

Examples:
"Book room 102 for devansh from Dec 30 to Jan 2" -> {"action": "book_room", "room": "102", "guest_name": "devansh", "start_date": "2025-12-30", "end_date": "2026-01-02"}
"Book room 205 for John Smith tomorrow 3pm to Friday 11am" -> {"action": "book_room", "room": "205", "guest_name": "John Smith", "start_date": "2025-06-30", "end_date": "2025-07-04", "check_in_time": "15:00", "check_out_time": "11:00"}
"Check revenue today" -> {"action": "revenue_check", "details": "today"}
"What's the occupancy rate?" -> {"action": "occupancy_check"}
"Hotel occupancy this month" -> {"action": "occupancy_check", "details": "month"}
"Check in John Smith to room 108" -> {"action": "check_in", "room": "108", "guest_name": "John Smith"}
"Block room 205 from July 15 to July 17" -> {"action": "block_room", "room": "205", "start_date": "2025-07-15", "end_date": "2025-07-17"}
"Room 203 maintenance complete" -> {"action": "room_status", "room": "203", "details": "maintenance complete"}`

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Interpreter turns a free-form operator message into a structured intent.
// It never fails hard: any upstream or parse problem degrades to an unknown
// intent so the caller can reply with usage help.
type Interpreter interface {
	Interpret(ctx context.Context, message string) (model.Intent, error)
}

type interpreterImpl struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func New(config *config.Config) Interpreter {
	cfg := config.External.Interpreter

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = defaultModel
	}

	timeoutSeconds := cfg.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	return &interpreterImpl{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   chatModel,
		client: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (i *interpreterImpl) Interpret(ctx context.Context, message string) (model.Intent, error) {
	if i.apiKey == "" {
		log.Warn().Msg("Interpreter API key not configured, falling back to unknown intent")

		return model.UnknownIntent(), nil
	}

	payload := chatRequest{
		Model: i.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Extract action details from: %q", message)},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return model.UnknownIntent(), fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return model.UnknownIntent(), fmt.Errorf("failed to create chat request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+i.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Interpreter request failed, falling back to unknown intent")

		return model.UnknownIntent(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Msg("Interpreter returned non-OK status, falling back to unknown intent")

		return model.UnknownIntent(), nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read interpreter response, falling back to unknown intent")

		return model.UnknownIntent(), nil
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil || len(chat.Choices) == 0 {
		log.Error().Err(err).Msg("Failed to decode interpreter response, falling back to unknown intent")

		return model.UnknownIntent(), nil
	}

	var intent model.Intent
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &intent); err != nil {
		log.Warn().Str("content", chat.Choices[0].Message.Content).Msg("Interpreter returned non-JSON content, falling back to unknown intent")

		return model.UnknownIntent(), nil
	}

	if intent.Action == "" {
		intent.Action = model.ActionUnknown
	}

	return intent, nil
}
