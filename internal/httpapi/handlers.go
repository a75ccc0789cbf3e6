package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/spigell/abang/internal/analysis"
	"github.com/spigell/abang/internal/chatbot"
	"github.com/spigell/abang/internal/explanation"
	"github.com/spigell/abang/internal/ingest"
	"github.com/spigell/abang/internal/policy"
	"github.com/spigell/abang/internal/user"
)

var (
	errPhoneNotFound    = errors.New("phone number not registered")
	errChatbotDisabled  = errors.New("chatbot is not configured")
	errInvalidID        = errors.New("invalid id")
	errInvalidLimit     = errors.New("limit must be a non-negative integer")
	errMissingItemIDs   = errors.New("item_ids is required")
	errMalformedRequest = errors.New("malformed request body")
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type phoneResponse struct {
	PhoneNumber string `json:"phone_number"`
}

type riskRequest struct {
	Address string `json:"address"`
}

type ingestRequest struct {
	ItemIDs []any `json:"item_ids"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Code: http.StatusText(status), Message: err.Error()})
}

// fail maps use case errors to status codes. Unknown errors are logged and
// masked.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, analysis.ErrAddressNotFound),
		errors.Is(err, analysis.ErrBuildingNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, analysis.ErrEmptyAddress),
		errors.Is(err, analysis.ErrInvalidArea),
		errors.Is(err, chatbot.ErrInvalidTone),
		errors.Is(err, chatbot.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err)
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errMalformedRequest, err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) myPhone(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	h.phone(w, r, id, false)
}

func (h *handler) userPhone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.phone(w, r, id, true)
}

// phone answers 404 for a user without a number only when required is set.
func (h *handler) phone(w http.ResponseWriter, r *http.Request, userID int64, required bool) {
	phone, err := h.deps.Phone.Execute(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if phone == "" && required {
		writeError(w, http.StatusNotFound, errPhoneNotFound)
		return
	}

	writeJSON(w, http.StatusOK, phoneResponse{PhoneNumber: phone})
}

func (h *handler) analyzeRisk(w http.ResponseWriter, r *http.Request) {
	var req riskRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	score, err := h.deps.Risk.Execute(r.Context(), req.Address)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, score)
}

func (h *handler) analyzePrice(w http.ResponseWriter, r *http.Request) {
	var q analysis.PriceQuery
	if err := decode(r, &q); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	score, err := h.deps.Price.Execute(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, score)
}

func (h *handler) candidates(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, errInvalidLimit)
			return
		}
	}

	result, err := h.deps.Candidates.Execute(r.Context(), policy.Command{FinderRequestID: id, Limit: limit})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *handler) ingestZigbang(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.ItemIDs) == 0 {
		writeError(w, http.StatusBadRequest, errMissingItemIDs)
		return
	}

	result, err := h.deps.Ingest.Execute(r.Context(), ingest.Command{ItemIDs: req.ItemIDs})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *handler) explain(w http.ResponseWriter, r *http.Request) {
	var in explanation.Input
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, explanation.Explain(in))
}

func (h *handler) recommendations(w http.ResponseWriter, r *http.Request) {
	if h.deps.Chatbot == nil {
		writeError(w, http.StatusServiceUnavailable, errChatbotDisabled)
		return
	}

	var req chatbot.Request
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.deps.Chatbot.Execute(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
