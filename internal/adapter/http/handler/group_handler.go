package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/vslaledger/internal/adapter/http/dto"
	"github.com/iho/vslaledger/internal/usecase"
)

// GroupHandler handles group, cycle and member HTTP requests.
type GroupHandler struct {
	groupUC *usecase.GroupUseCase
	entryUC *usecase.EntryUseCase
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupUC *usecase.GroupUseCase, entryUC *usecase.EntryUseCase) *GroupHandler {
	return &GroupHandler{groupUC: groupUC, entryUC: entryUC}
}

// Create registers a new group.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	group, err := h.groupUC.CreateGroup(r.Context(), req.Name, req.Location)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create group", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.GroupFromDomain(group))
}

// Get retrieves a group by ID.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	group, err := h.groupUC.GetGroup(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get group", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.GroupFromDomain(group))
}

// List lists groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	groups, err := h.groupUC.ListGroups(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list groups", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.GroupsFromDomain(groups))
}

// CreateCycle starts a new savings cycle for a group.
func (h *GroupHandler) CreateCycle(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	var req dto.CreateCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cycle, err := h.groupUC.CreateCycle(r.Context(), req.ToUseCaseInput(groupID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create cycle", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.CycleFromDomain(cycle))
}

// GetCycle retrieves a cycle by ID.
func (h *GroupHandler) GetCycle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing cycle ID", "")
		return
	}

	cycle, err := h.groupUC.GetCycle(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get cycle", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CycleFromDomain(cycle))
}

// ListCycles lists a group's cycles.
func (h *GroupHandler) ListCycles(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	cycles, err := h.groupUC.ListCycles(r.Context(), groupID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list cycles", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CyclesFromDomain(cycles))
}

// AddMember enrolls a member in a group.
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	var req dto.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	member, err := h.groupUC.AddMember(r.Context(), groupID, req.Name, req.Phone)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to add member", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.MemberFromDomain(member))
}

// GetMember retrieves a member by ID.
func (h *GroupHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing member ID", "")
		return
	}

	member, err := h.groupUC.GetMember(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get member", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MemberFromDomain(member))
}

// ListMembers lists a group's members.
func (h *GroupHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	members, err := h.groupUC.ListMembers(r.Context(), groupID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MembersFromDomain(members))
}

// MemberStatement returns a member's signed transaction history and net
// position.
func (h *GroupHandler) MemberStatement(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")
	if memberID == "" {
		writeError(w, http.StatusBadRequest, "missing member ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	statement, err := h.entryUC.GetMemberStatement(r.Context(), memberID, limit, offset)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get statement", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MemberStatementFromUseCase(statement))
}

// ListEntries lists a group's ledger legs, newest first.
func (h *GroupHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.entryUC.ListByGroup(r.Context(), groupID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
