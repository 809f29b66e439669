// Package render turns stock data into markdown, and markdown into terminal
// or HTML output.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"stock-positions/client"
	"stock-positions/models"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"cell":   cell,
	"inline": inline,
	"label":  label,
	"href":   href,
	"change": change,
	"ticker": tickerCell,
}

var tmpl = template.Must(template.New("render").Funcs(funcs).ParseFS(templates, "templates/*.md"))

// ListOptions holds configuration for rendering the stock list.
type ListOptions struct {
	// LinkBase turns tickers into links to LinkBase+ticker. Empty means plain text.
	LinkBase string
}

// StockList renders the list view as a markdown table.
func StockList(stocks []models.StockSummary, opts ListOptions) string {
	return execute("stock_list.md", struct {
		Stocks   []models.StockSummary
		LinkBase string
	}{stocks, opts.LinkBase})
}

// StockDetail renders the detail view: description, basic info, pros and
// cons, top news.
func StockDetail(ticker string, d *models.StockDetail) string {
	if d == nil {
		d = &models.StockDetail{}
	}
	title := d.Description.Name
	if title == "" {
		title = ticker
	}
	return execute("stock_detail.md", struct {
		Title  string
		Detail *models.StockDetail
	}{title, d})
}

// SearchResults renders catalog entries matching query.
func SearchResults(query string, stocks []models.Stock) string {
	return execute("search_results.md", struct {
		Query  string
		Stocks []models.Stock
	}{query, stocks})
}

// Error renders a failed fetch the way the pages show it.
func Error(err error) string {
	return "Error: " + inline(err.Error()) + "\n"
}

func execute(name string, data any) string {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", name, err)
	}
	return b.String()
}

// Terminal renders markdown for a terminal using a glamour standard style
// ("auto", "dark", "light", "notty", ...). width 0 disables wrapping.
func Terminal(md, style string, width int) (string, error) {
	if style == "" {
		style = "auto"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts markdown to an HTML fragment. Raw HTML in the input is not
// passed through.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func change(pc models.PriceChange) string {
	return fmt.Sprintf("%s (%s%%)", pc.AmountChange.StringFixed(2), pc.PercentChange.StringFixed(2))
}

func tickerCell(base, ticker string) string {
	if base == "" {
		return cell(ticker)
	}
	return "[" + label(ticker) + "](" + href(base+client.EscapeTicker(ticker)) + ")"
}

var inlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// inline keeps text on one line.
func inline(s string) string { return inlineReplacer.Replace(s) }

// cell makes text safe inside a table cell.
func cell(s string) string { return strings.ReplaceAll(inline(s), "|", `\|`) }

// label makes text safe inside link brackets.
func label(s string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(cell(s))
}

var hrefReplacer = strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29", "<", "%3C", ">", "%3E")

// href makes a URL safe as a link destination.
func href(u string) string { return hrefReplacer.Replace(inline(u)) }
