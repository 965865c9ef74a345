// Package web serves the server-rendered portfolio page on top of the API client.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/wonny/stocktracker/internal/client"
	"github.com/wonny/stocktracker/internal/domain/stock"
)

//go:embed templates/*.html
var templateFS embed.FS

// Notices passed through the redirect after a failed delete
const (
	noticeDeleteFailed = "delete-failed"
)

// StockAPI is the part of the API client the pages use
type StockAPI interface {
	ListStocks(ctx context.Context) ([]stock.Stock, error)
	CreateStock(ctx context.Context, in stock.CreateInput) (*stock.Stock, error)
	DeleteStock(ctx context.Context, id int64) error
}

// Row is one rendered table line
type Row struct {
	ID          int64
	Ticker      string
	Name        string
	Price       string
	Quantity    string
	Value       string
	PurchasedAt string
	Notes       string
}

// PageData is everything the index template renders
type PageData struct {
	Rows   []Row
	Count  int
	Total  string
	Form   Form
	Notice string
}

// Handler owns both the list view and the create form.
// Every successful mutation redirects to "/" so the list is fetched again.
type Handler struct {
	api      StockAPI
	currency string
	tmpl     *template.Template
	now      func() time.Time
}

// NewHandler creates a new web Handler
func NewHandler(api StockAPI, currency string) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		api:      api,
		currency: currency,
		tmpl:     tmpl,
		now:      time.Now,
	}, nil
}

// Register adds the page routes to router
func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/", h.Index).Methods(http.MethodGet)
	router.HandleFunc("/stocks", h.Create).Methods(http.MethodPost)
	router.HandleFunc("/stocks/{id}/delete", h.Delete).Methods(http.MethodPost)
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	var notice string
	if r.URL.Query().Get("notice") == noticeDeleteFailed {
		notice = "The position could not be deleted. Please try again."
	}
	h.render(w, r, http.StatusOK, DefaultForm(h.now()), notice)
}

// Create handles POST /stocks
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := ParseForm(r)
	if err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	in, ok := form.Validate()
	if !ok {
		h.render(w, r, http.StatusUnprocessableEntity, form, "")
		return
	}

	if _, err := h.api.CreateStock(r.Context(), in); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("ticker", in.Ticker).Msg("Create position failed")

		var apiErr *client.APIError
		if errors.As(err, &apiErr) && len(apiErr.Detail.Fields) > 0 {
			for _, f := range apiErr.Detail.Fields {
				form.Errors[f.Field] = f.Message
			}
			h.render(w, r, http.StatusUnprocessableEntity, form, "")
			return
		}
		h.render(w, r, http.StatusBadGateway, form, "The position could not be saved. Please try again.")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Delete handles POST /stocks/{id}/delete
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := stock.ParseID(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	target := "/"
	if err := h.api.DeleteStock(r.Context(), id); err != nil && !client.IsNotFound(err) {
		log.Ctx(r.Context()).Warn().Err(err).Int64("id", id).Msg("Delete position failed")
		target = "/?notice=" + noticeDeleteFailed
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, form Form, notice string) {
	stocks, err := h.api.ListStocks(r.Context())
	if err != nil {
		// an unreachable API shows as an empty portfolio
		log.Ctx(r.Context()).Warn().Err(err).Msg("List positions failed")
		stocks = nil
		if notice == "" {
			notice = "Positions could not be loaded right now."
		}
	}

	summary := Summarize(stocks)
	data := PageData{
		Rows:   make([]Row, 0, len(stocks)),
		Count:  summary.Count,
		Total:  FormatMoney(summary.Total, h.currency),
		Form:   form,
		Notice: notice,
	}
	for _, s := range stocks {
		row := Row{
			ID:          s.ID,
			Ticker:      s.Ticker,
			Name:        s.Name,
			Price:       FormatMoney(s.PurchasePrice, h.currency),
			Quantity:    s.Quantity.String(),
			Value:       FormatMoney(s.Value(), h.currency),
			PurchasedAt: s.PurchasedAt.Format(stock.DateLayout),
		}
		if s.Notes != nil {
			row.Notes = *s.Notes
		}
		data.Rows = append(data.Rows, row)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Render page failed")
	}
}
