package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/ccastromar/askai/internal/llm"
	"github.com/ccastromar/askai/internal/logx"
	"github.com/ccastromar/askai/internal/textnorm"
)

// Max request size for POST /ask-ai (1MB)
const maxAskBodyBytes int64 = 1 << 20

const (
	replyNoQuestion   = "No question provided."
	replyNotAllowed   = "Method not allowed."
	replyTooLarge     = "Request body too large."
	replyLLMFailed    = "LLM API Failed: "
	replyServerFailed = "Server processing error: "
)

// Asker is the slice of the backend client the endpoint needs.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

type Handler struct {
	asker Asker
}

func NewHandler(a Asker) *Handler {
	return &Handler{asker: a}
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	ProcessedQ string `json:"processed_q"`
	Reply      string `json:"reply"`
}

var idRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// RegisterHTTP registers the question endpoint on mux.
func (h *Handler) RegisterHTTP(mux *http.ServeMux) {
	mux.HandleFunc("/ask-ai", h.handleAskAI)
}

func (h *Handler) handleAskAI(w http.ResponseWriter, r *http.Request) {
	id := requestID(r)
	w.Header().Set("X-Request-ID", id)

	defer func() {
		if rec := recover(); rec != nil {
			logx.Error("API", "[%s] panic recovered in /ask-ai: %v", id, rec)
			writeJSON(w, http.StatusInternalServerError, askResponse{
				Reply: fmt.Sprintf("%s%v", replyServerFailed, rec),
			})
		}
	}()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, askResponse{Reply: replyNotAllowed})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAskBodyBytes)
	var req askRequest
	if err := decodeAsk(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, askResponse{Reply: replyTooLarge})
			return
		}
		bad := llm.MalformedRequest(err.Error())
		logx.L(id, "API", "rejected body: %v", bad)
		writeJSON(w, http.StatusBadRequest, askResponse{Reply: capitalize(bad.Error())})
		return
	}

	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, askResponse{Reply: replyNoQuestion})
		return
	}

	processed := textnorm.Normalize(req.Question)
	logx.L(id, "API", "processed question %q", processed)

	timer := logx.Start(id, "API", "ask")
	answer, err := h.asker.Ask(r.Context(), processed)
	timer.End()
	if err != nil {
		logx.Warn("API", "[%s] backend failed kind=%s: %v", id, llm.KindOf(err), err)
		writeJSON(w, http.StatusInternalServerError, askResponse{
			ProcessedQ: processed,
			Reply:      replyLLMFailed + err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, askResponse{ProcessedQ: processed, Reply: answer})
}

// requestID reuses a well-formed incoming X-Request-ID, else mints one.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); idRe.MatchString(id) {
		return id
	}
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, body askResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// decodeAsk reads exactly one JSON value; anything after it is malformed.
func decodeAsk(r io.Reader, req *askRequest) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(req); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}
