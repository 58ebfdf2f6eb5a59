package attendance

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/attendance-tracker/internal/auth"
	"github.com/frahmantamala/attendance-tracker/internal/transport"
	"github.com/frahmantamala/attendance-tracker/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rec, err := h.Service.CheckIn(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rec.ToResponse())
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rec, err := h.Service.CheckOut(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rec.ToResponse())
}

func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	date, rec, err := h.Service.GetToday(actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp := TodayResponse{Date: date}
	if rec != nil {
		body := rec.ToResponse()
		resp.Record = &body
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = parsed
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "offset must be a number")
			return
		}
		offset = parsed
	}

	records, err := h.Service.History(actor, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp := HistoryResponse{Records: make([]RecordResponse, len(records))}
	for i, rec := range records {
		resp.Records[i] = rec.ToResponse()
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
