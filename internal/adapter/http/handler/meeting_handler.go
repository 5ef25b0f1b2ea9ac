package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/vslaledger/internal/adapter/http/dto"
	"github.com/iho/vslaledger/internal/usecase"
)

// MeetingHandler handles meeting submission and lookup.
type MeetingHandler struct {
	processor *usecase.MeetingProcessor
	entryUC   *usecase.EntryUseCase
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(processor *usecase.MeetingProcessor, entryUC *usecase.EntryUseCase) *MeetingHandler {
	return &MeetingHandler{processor: processor, entryUC: entryUC}
}

// Submit accepts an offline-captured meeting and processes it synchronously.
// Resubmitting the same local_id returns the stored outcome instead of
// processing twice.
func (h *MeetingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	meeting := req.ToDomain()

	result, err := h.processor.SubmitMeeting(r.Context(), meeting, actorID(r))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to submit meeting", err.Error())

		return
	}

	status := http.StatusCreated
	if !result.Success {
		// The meeting is stored with its failure recorded; the payload
		// itself was unprocessable.
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, dto.SubmitMeetingResponse{
		Meeting: dto.MeetingFromDomain(meeting),
		Result:  result,
	})
}

// Get retrieves a meeting by ID.
func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing meeting ID", "")
		return
	}

	meeting, err := h.processor.GetMeeting(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get meeting", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MeetingFromDomain(meeting))
}

// ListByGroup lists a group's meetings, newest first.
func (h *MeetingHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	meetings, err := h.processor.ListMeetingsByGroup(r.Context(), groupID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list meetings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MeetingsFromDomain(meetings))
}

// ListEntries lists the ledger legs a meeting produced.
func (h *MeetingHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing meeting ID", "")
		return
	}

	entries, err := h.entryUC.ListByMeeting(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
