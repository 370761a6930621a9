package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ccastromar/askai/internal/logx"
)

var listenAndServe = http.ListenAndServe

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// buildMux serves an OpenAI-compatible chat completions endpoint that
// echoes the last user message. A prompt of "empty" yields an empty answer
// and "fail" yields a 429 quota error, so both surfaces can be exercised
// by hand.
func buildMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_error", err.Error())
			return
		}

		prompt := ""
		for _, m := range req.Messages {
			if m.Role == "user" {
				prompt = m.Content
			}
		}
		logx.Info("Mock", "model=%s prompt=%q", req.Model, prompt)

		var content string
		switch strings.TrimSpace(prompt) {
		case "fail":
			writeError(w, http.StatusTooManyRequests, "insufficient_quota", "You exceeded your current quota.")
			return
		case "empty":
			content = ""
		default:
			content = "You asked: " + prompt
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-" + uuid.NewString(),
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	})

	return mux
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": msg, "type": kind, "code": kind},
	})
}

func main() {
	addr := flag.String("addr", ":9000", "listen address")
	flag.Parse()

	logx.Info("Mock", "OpenAI-compatible mock listening on %s", *addr)
	if err := listenAndServe(*addr, buildMux()); err != nil {
		logx.Error("Mock", "server stopped: %v", err)
	}
}
