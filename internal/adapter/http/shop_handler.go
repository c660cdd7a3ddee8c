package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wincantonlogs/firewood/internal/adapter/logger"
	"github.com/wincantonlogs/firewood/internal/domain"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

// ShopHandler serves the public storefront API: catalog, order intake,
// payment initiation and the customer-visible order view.
type ShopHandler struct {
	catalog interfaces.CatalogService
	orders  interfaces.OrderService
	logger  logger.Logger
}

func NewShopHandler(catalog interfaces.CatalogService, orders interfaces.OrderService, logger logger.Logger) *ShopHandler {
	return &ShopHandler{
		catalog: catalog,
		orders:  orders,
		logger:  logger,
	}
}

type ProductResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int     `json:"price"`
	ImageURL    *string `json:"image_url,omitempty"`
}

type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	CustomerEmail *string            `json:"customer_email,omitempty"`
	AddressLine1  string             `json:"address_line1"`
	AddressLine2  *string            `json:"address_line2,omitempty"`
	Town          string             `json:"town"`
	County        *string            `json:"county,omitempty"`
	Postcode      string             `json:"postcode"`
	PreferredDay  *string            `json:"preferred_day,omitempty"`
	DeliveryNotes *string            `json:"delivery_notes,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	Items         []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// OrderResponse is the customer-visible projection: no husbandry
// notes, cancellation reason or archive state.
type OrderResponse struct {
	ID            int                 `json:"id"`
	Reference     string              `json:"reference"`
	CreatedAt     time.Time           `json:"created_at"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	PaymentStatus string              `json:"payment_status"`
	CheckoutURL   *string             `json:"checkout_url,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	Subtotal      int                 `json:"subtotal"`
	DeliveryFee   int                 `json:"delivery_fee"`
	Total         int                 `json:"total"`
}

type OrderItemResponse struct {
	Name      string `json:"name"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal int    `json:"line_total"`
}

func (h *ShopHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("catalog_list_failed", "Failed to list products", "", nil, err)
		writeDomainError(w, err)
		return
	}

	resp := make([]ProductResponse, len(products))
	for i, p := range products {
		resp[i] = ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ShopHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := interfaces.CreateOrderCommand{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		Town:          req.Town,
		County:        req.County,
		Postcode:      req.Postcode,
		PreferredDay:  req.PreferredDay,
		DeliveryNotes: req.DeliveryNotes,
		PaymentMethod: req.PaymentMethod,
		Items:         make([]interfaces.CreateOrderItemCommand, len(req.Items)),
	}
	for i, item := range req.Items {
		cmd.Items[i] = interfaces.CreateOrderItemCommand{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	ord, err := h.orders.CreateOrder(r.Context(), cmd)
	if err != nil {
		h.logger.Error("order_creation_failed", "Failed to create order", "", nil, err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(ord))
}

func (h *ShopHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	ord, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(ord))
}

func (h *ShopHandler) StartPayment(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	checkoutURL, err := h.orders.StartPayment(r.Context(), id)
	if err != nil {
		h.logger.Error("payment_start_failed", "Failed to start payment", "", map[string]interface{}{
			"order_id": id,
		}, err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"checkout_url": checkoutURL})
}

func orderID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

func toOrderResponse(ord *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(ord.Items))
	for i, item := range ord.Items {
		items[i] = OrderItemResponse{
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		}
	}

	return OrderResponse{
		ID:            ord.ID,
		Reference:     ord.Reference,
		CreatedAt:     ord.CreatedAt,
		Status:        string(ord.Status),
		PaymentMethod: string(ord.PaymentMethod),
		PaymentStatus: string(ord.PaymentStatus),
		CheckoutURL:   ord.CheckoutURL,
		Items:         items,
		Subtotal:      ord.Subtotal,
		DeliveryFee:   ord.DeliveryFee,
		Total:         ord.Total,
	}
}
