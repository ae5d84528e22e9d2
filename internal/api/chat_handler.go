package api

import (
	"io"
	"net/http"

	"github.com/kairos-interview/backend/internal/speech"
)

// ── Request / Response types ────────────────────────────────────────────────

type SendMessageRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type SendMessageResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

type TranscribeResponse struct {
	Text string `json:"text"`
}

// maxAudioUpload bounds transcription uploads.
const maxAudioUpload = 10 << 20

// ── Handlers ────────────────────────────────────────────────────────────────

// sendMessage relays one message to the assistant.
// @Summary      Send a chat message
// @Description  Sends a message in a free-form assistant conversation. Omit conversation_id to start a new conversation.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        body  body      SendMessageRequest  true  "Message and optional conversation ID"
// @Success      200   {object}  SendMessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string  "model unavailable"
// @Router       /api/chat/send-message [post]
func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	convID, reply, err := h.chat.SendMessage(r.Context(), req.ConversationID, req.Message)
	if err != nil {
		h.logger.Error("chat message failed", "conversation", convID, "error", err)
		respondError(w, http.StatusBadGateway, "assistant is unavailable")
		return
	}

	respondJSON(w, http.StatusOK, SendMessageResponse{ConversationID: convID, Reply: reply})
}

// transcribe converts an audio recording to text.
// @Summary      Transcribe audio
// @Description  Converts an uploaded audio recording to text. Recognition failures return the sentinel "[Unrecognized Speech]" rather than an error.
// @Tags         Chat
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Audio recording"
// @Success      200   {object}  TranscribeResponse
// @Failure      400   {object}  map[string]string
// @Failure      501   {object}  map[string]string  "no speech provider configured"
// @Router       /api/chat/transcribe [post]
func (h *Handler) transcribe(w http.ResponseWriter, r *http.Request) {
	if h.recognizer == nil {
		respondError(w, http.StatusNotImplemented, "speech recognition is not configured")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioUpload))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read audio")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "audio/wav"
	}

	text := speech.TranscribeOrSentinel(r.Context(), h.recognizer, h.logger, audio, mimeType)
	respondJSON(w, http.StatusOK, TranscribeResponse{Text: text})
}
