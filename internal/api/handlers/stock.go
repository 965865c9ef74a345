package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/wonny/stocktracker/internal/api/response"
	"github.com/wonny/stocktracker/internal/domain/stock"
	stocksvc "github.com/wonny/stocktracker/internal/service/stock"
)

const maxBodyBytes = 1 << 20

// StockHandler handles stock-related HTTP requests
type StockHandler struct {
	service *stocksvc.Service
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(service *stocksvc.Service) *StockHandler {
	return &StockHandler{
		service: service,
	}
}

// CreateStockRequest is the POST /api/stocks body.
// Amounts are pointers so a missing field can be told apart from zero.
type CreateStockRequest struct {
	Ticker        string           `json:"ticker"`
	Name          string           `json:"name"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
	Quantity      *decimal.Decimal `json:"quantity"`
	PurchasedAt   string           `json:"purchasedAt"`
	Notes         *string          `json:"notes"`
}

// ToInput converts the request into a CreateInput, collecting every field error
func (req CreateStockRequest) ToInput() (stock.CreateInput, error) {
	ve := &stock.ValidationError{}

	in := stock.CreateInput{
		Ticker: req.Ticker,
		Name:   req.Name,
		Notes:  req.Notes,
	}

	if req.PurchasePrice == nil {
		ve.Add("purchasePrice", "purchasePrice is required")
	} else {
		in.PurchasePrice = *req.PurchasePrice
	}
	if req.Quantity == nil {
		ve.Add("quantity", "quantity is required")
	} else {
		in.Quantity = *req.Quantity
	}
	if req.PurchasedAt != "" {
		at, err := stock.ParseDate(req.PurchasedAt)
		if err != nil {
			ve.Add("purchasedAt", "purchasedAt must be an ISO-8601 timestamp or YYYY-MM-DD date")
		} else {
			in.PurchasedAt = at
		}
	}

	var fieldErrs *stock.ValidationError
	if errors.As(in.Validate(), &fieldErrs) {
		ve.Merge(fieldErrs)
	}

	return in, ve.ErrOrNil()
}

// List handles GET /api/stocks
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.service.List(r.Context())
	if err != nil {
		response.DatabaseError(w, r, err)
		return
	}

	response.OK(w, stocks)
}

// Get handles GET /api/stocks/{id}
func (h *StockHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	s, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, stock.ErrStockNotFound) {
			response.NotFound(w, r, "Stock")
			return
		}
		response.DatabaseError(w, r, err)
		return
	}

	response.OK(w, s)
}

// Create handles POST /api/stocks
func (h *StockHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStockRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		response.InvalidBody(w, r, err)
		return
	}

	in, err := req.ToInput()
	if err != nil {
		writeValidation(w, r, err)
		return
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, stock.ErrInvalidInput) {
			writeValidation(w, r, err)
			return
		}
		response.DatabaseError(w, r, err)
		return
	}

	response.Created(w, fmt.Sprintf("/api/stocks/%d", created.ID), created)
}

// Delete handles DELETE /api/stocks/{id}
func (h *StockHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		response.DatabaseError(w, r, err)
		return
	}
	if !deleted {
		response.NotFound(w, r, "Stock")
		return
	}

	response.NoContent(w)
}

func (h *StockHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := stock.ParseID(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, r, "id must be an integer")
		return 0, false
	}
	return id, true
}

func writeValidation(w http.ResponseWriter, r *http.Request, err error) {
	var ve *stock.ValidationError
	if !errors.As(err, &ve) {
		response.Error(w, r, http.StatusBadRequest, response.ErrCodeValidation, err.Error())
		return
	}

	fields := make([]response.FieldError, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, response.FieldError{Field: f.Field, Message: f.Message})
	}
	response.ValidationError(w, r, fields)
}
