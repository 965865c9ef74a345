package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/wonny/stocktracker/internal/client"
	"github.com/wonny/stocktracker/internal/domain/stock"
	"github.com/wonny/stocktracker/internal/web"
)

var (
	apiURL string
	plain  bool

	addTicker string
	addName   string
	addPrice  string
	addQty    string
	addDate   string
	addNotes  string
)

var stocksCmd = &cobra.Command{
	Use:   "stocks",
	Short: "Manage positions through the API",
	Long: `Manage positions through a running API server.

Examples:
  stocktracker stocks list
  stocktracker stocks add --ticker AAPL --name "Apple Inc." --price 178.50 --quantity 10 --date 2024-03-15
  stocktracker stocks delete 3`,
}

var stocksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List positions as a table",
	RunE:  runStocksList,
}

var stocksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a position",
	RunE:  runStocksAdd,
}

var stocksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a position by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runStocksDelete,
}

func init() {
	stocksCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (default API_BASE_URL)")

	stocksListCmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown instead of rendering it")

	stocksAddCmd.Flags().StringVar(&addTicker, "ticker", "", "ticker symbol")
	stocksAddCmd.Flags().StringVar(&addName, "name", "", "company name")
	stocksAddCmd.Flags().StringVar(&addPrice, "price", "", "purchase price per share")
	stocksAddCmd.Flags().StringVar(&addQty, "quantity", "", "number of shares")
	stocksAddCmd.Flags().StringVar(&addDate, "date", time.Now().Format(stock.DateLayout), "purchase date (YYYY-MM-DD)")
	stocksAddCmd.Flags().StringVar(&addNotes, "notes", "", "optional notes")
	for _, name := range []string{"ticker", "name", "price", "quantity"} {
		_ = stocksAddCmd.MarkFlagRequired(name)
	}

	stocksCmd.AddCommand(stocksListCmd)
	stocksCmd.AddCommand(stocksAddCmd)
	stocksCmd.AddCommand(stocksDeleteCmd)
}

func newClient() *client.Client {
	base := apiURL
	if base == "" {
		base = cfg.Web.APIBaseURL
	}
	return client.New(base, client.WithTimeout(cfg.Web.ClientTimeout))
}

func runStocksList(cmd *cobra.Command, args []string) error {
	stocks, err := newClient().ListStocks(cmd.Context())
	if err != nil {
		return err
	}

	md := stocksMarkdown(stocks, cfg.Web.Currency)
	if plain {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func runStocksAdd(cmd *cobra.Command, args []string) error {
	price, err := decimal.NewFromString(addPrice)
	if err != nil {
		return fmt.Errorf("--price: %w", err)
	}
	qty, err := decimal.NewFromString(addQty)
	if err != nil {
		return fmt.Errorf("--quantity: %w", err)
	}
	at, err := stock.ParseDate(addDate)
	if err != nil {
		return fmt.Errorf("--date: %w", err)
	}

	in := stock.CreateInput{
		Ticker:        addTicker,
		Name:          addName,
		PurchasePrice: price,
		Quantity:      qty,
		PurchasedAt:   at,
	}
	if addNotes != "" {
		in.Notes = &addNotes
	}
	if err := in.Validate(); err != nil {
		return err
	}

	created, err := newClient().CreateStock(cmd.Context(), in)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Created #%d %s (%s)\n", created.ID, created.Ticker, web.FormatMoney(created.Value(), cfg.Web.Currency))
	return nil
}

func runStocksDelete(cmd *cobra.Command, args []string) error {
	id, err := stock.ParseID(args[0])
	if err != nil {
		return err
	}

	if err := newClient().DeleteStock(cmd.Context(), id); err != nil {
		if client.IsNotFound(err) {
			return fmt.Errorf("position %d does not exist", id)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🗑  Deleted #%d\n", id)
	return nil
}

// stocksMarkdown renders positions plus the summary line as a markdown table
func stocksMarkdown(stocks []stock.Stock, currency string) string {
	var b strings.Builder

	b.WriteString("# Positions\n\n")
	if len(stocks) == 0 {
		b.WriteString("_No positions yet. Add one with `stocktracker stocks add`._\n")
		return b.String()
	}

	b.WriteString("| ID | Ticker | Name | Price | Qty | Value | Purchased | Notes |\n")
	b.WriteString("|---:|---|---|---:|---:|---:|---|---|\n")
	for _, s := range stocks {
		notes := ""
		if s.Notes != nil {
			notes = *s.Notes
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
			s.ID,
			escapeCell(s.Ticker),
			escapeCell(s.Name),
			web.FormatMoney(s.PurchasePrice, currency),
			s.Quantity.String(),
			web.FormatMoney(s.Value(), currency),
			s.PurchasedAt.Format(stock.DateLayout),
			escapeCell(notes),
		)
	}

	summary := web.Summarize(stocks)
	fmt.Fprintf(&b, "\n**%d position(s)**, total value **%s**\n", summary.Count, web.FormatMoney(summary.Total, currency))
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
