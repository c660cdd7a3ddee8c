package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wincantonlogs/firewood/internal/adapter/logger"
	"github.com/wincantonlogs/firewood/internal/domain"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

// AdminHandler serves the staff API. Authentication happens in the
// router's basic-auth middleware; everything here assumes staff.
type AdminHandler struct {
	service interfaces.AdminService
	logger  logger.Logger
}

func NewAdminHandler(service interfaces.AdminService, logger logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger,
	}
}

// AdminOrderResponse is the staff projection, including the fields the
// public view withholds.
type AdminOrderResponse struct {
	OrderResponse
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	CustomerEmail *string    `json:"customer_email,omitempty"`
	AddressLine1  string     `json:"address_line1"`
	AddressLine2  *string    `json:"address_line2,omitempty"`
	Town          string     `json:"town"`
	County        *string    `json:"county,omitempty"`
	Postcode      string     `json:"postcode"`
	PreferredDay  *string    `json:"preferred_day,omitempty"`
	DeliveryNotes *string    `json:"delivery_notes,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CancelReason  *string    `json:"cancel_reason,omitempty"`
	ArchivedAt    *time.Time `json:"archived_at,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CancelRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type BulkRequest struct {
	IDs    []int   `json:"ids"`
	Reason *string `json:"reason,omitempty"`
}

type BulkResponse struct {
	Updated []int          `json:"updated"`
	Failed  map[int]string `json:"failed,omitempty"`
}

type NoteRequest struct {
	Note   string  `json:"note"`
	Author *string `json:"author,omitempty"`
}

type NoteResponse struct {
	ID        int       `json:"id"`
	Note      string    `json:"note"`
	Author    *string   `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type DispatchGroupResponse struct {
	OutwardCode string               `json:"outward_code"`
	Orders      []AdminOrderResponse `json:"orders"`
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := interfaces.ListOrdersFilter{
		IncludeArchived: r.URL.Query().Get("archived") == "true",
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		filter.Status = &status
	}

	orders, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		h.logger.Error("admin_list_failed", "Failed to list orders", "", nil, err)
		writeDomainError(w, err)
		return
	}

	resp := make([]AdminOrderResponse, len(orders))
	for i, ord := range orders {
		resp[i] = toAdminOrderResponse(ord)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	ord, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAdminOrderResponse(ord))
}

func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, status); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req CancelRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.service.CancelOrder(r.Context(), id, req.Reason); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.applyToOrder(w, r, h.service.RestoreOrder)
}

func (h *AdminHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.applyToOrder(w, r, h.service.ArchiveOrder)
}

func (h *AdminHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.applyToOrder(w, r, h.service.UnarchiveOrder)
}

func (h *AdminHandler) applyToOrder(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int) error) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := op(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) BulkCancel(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBulk(w, r)
	if !ok {
		return
	}
	writeBulk(w, h.service.BulkCancel(r.Context(), req.IDs, req.Reason))
}

func (h *AdminHandler) BulkRestore(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBulk(w, r)
	if !ok {
		return
	}
	writeBulk(w, h.service.BulkRestore(r.Context(), req.IDs))
}

func (h *AdminHandler) BulkArchive(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBulk(w, r)
	if !ok {
		return
	}
	writeBulk(w, h.service.BulkArchive(r.Context(), req.IDs))
}

func (h *AdminHandler) BulkUnarchive(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBulk(w, r)
	if !ok {
		return
	}
	writeBulk(w, h.service.BulkUnarchive(r.Context(), req.IDs))
}

func (h *AdminHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.service.AddNote(r.Context(), id, req.Note, req.Author)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNoteResponse(entry))
}

func (h *AdminHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	entries, err := h.service.ListNotes(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]NoteResponse, len(entries))
	for i, entry := range entries {
		resp[i] = toNoteResponse(entry)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.DispatchList(r.Context())
	if err != nil {
		h.logger.Error("dispatch_list_failed", "Failed to build dispatch list", "", nil, err)
		writeDomainError(w, err)
		return
	}

	resp := make([]DispatchGroupResponse, len(groups))
	for i, group := range groups {
		orders := make([]AdminOrderResponse, len(group.Orders))
		for j, ord := range group.Orders {
			orders[j] = toAdminOrderResponse(ord)
		}
		resp[i] = DispatchGroupResponse{OutwardCode: group.OutwardCode, Orders: orders}
	}

	writeJSON(w, http.StatusOK, resp)
}

func decodeBulk(w http.ResponseWriter, r *http.Request) (BulkRequest, bool) {
	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return BulkRequest{}, false
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids must not be empty")
		return BulkRequest{}, false
	}
	return req, true
}

func writeBulk(w http.ResponseWriter, result interfaces.BulkResult) {
	resp := BulkResponse{Updated: result.Updated}
	if len(result.Failed) > 0 {
		resp.Failed = result.Failed
	}
	writeJSON(w, http.StatusOK, resp)
}

func toNoteResponse(entry *domain.HusbandryLog) NoteResponse {
	return NoteResponse{
		ID:        entry.ID,
		Note:      entry.Note,
		Author:    entry.Author,
		CreatedAt: entry.CreatedAt,
	}
}

func toAdminOrderResponse(ord *domain.Order) AdminOrderResponse {
	return AdminOrderResponse{
		OrderResponse: toOrderResponse(ord),
		CustomerName:  ord.Customer.Name,
		CustomerPhone: ord.Customer.Phone,
		CustomerEmail: ord.Customer.Email,
		AddressLine1:  ord.Address.Line1,
		AddressLine2:  ord.Address.Line2,
		Town:          ord.Address.Town,
		County:        ord.Address.County,
		Postcode:      ord.Address.Postcode,
		PreferredDay:  ord.PreferredDay,
		DeliveryNotes: ord.DeliveryNotes,
		CancelledAt:   ord.CancelledAt,
		CancelReason:  ord.CancelReason,
		ArchivedAt:    ord.ArchivedAt,
		PaidAt:        ord.PaidAt,
	}
}
