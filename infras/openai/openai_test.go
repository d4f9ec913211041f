package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/config"
	"innkeep/infras/openai"
	"innkeep/internal/domains/command/model"
)

func newTestConfig(baseURL, apiKey string) *config.Config {
	cfg := &config.Config{}
	cfg.External.Interpreter.BaseURL = baseURL
	cfg.External.Interpreter.APIKey = apiKey
	cfg.External.Interpreter.TimeoutSeconds = 2

	return cfg
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()

	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}

	assert.NoError(t, json.NewEncoder(w).Encode(reply))
}

func TestInterpreter_Interpret(t *testing.T) {
	t.Run("extracts structured intent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

			var payload map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "gpt-3.5-turbo", payload["model"])

			chatReply(t, w, `{"action":"book_room","room":"102","guest_name":"devansh","start_date":"2026-09-10","end_date":"2026-09-12"}`)
		}))
		defer srv.Close()

		interpreter := openai.New(newTestConfig(srv.URL, "sk-test"))

		intent, err := interpreter.Interpret(context.Background(), "Book room 102 for devansh")

		assert.NoError(t, err)
		assert.Equal(t, model.ActionBookRoom, intent.Action)
		assert.Equal(t, "102", intent.Room)
		assert.Equal(t, "devansh", intent.GuestName)
	})

	t.Run("falls back to unknown when key not configured", func(t *testing.T) {
		interpreter := openai.New(newTestConfig("", ""))

		intent, err := interpreter.Interpret(context.Background(), "hello")

		assert.NoError(t, err)
		assert.Equal(t, model.ActionUnknown, intent.Action)
	})

	t.Run("falls back to unknown on non-JSON content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			chatReply(t, w, "I could not understand that message.")
		}))
		defer srv.Close()

		interpreter := openai.New(newTestConfig(srv.URL, "sk-test"))

		intent, err := interpreter.Interpret(context.Background(), "gibberish")

		assert.NoError(t, err)
		assert.Equal(t, model.ActionUnknown, intent.Action)
	})

	t.Run("falls back to unknown on upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		interpreter := openai.New(newTestConfig(srv.URL, "sk-test"))

		intent, err := interpreter.Interpret(context.Background(), "Check revenue today")

		assert.NoError(t, err)
		assert.Equal(t, model.ActionUnknown, intent.Action)
	})
}
