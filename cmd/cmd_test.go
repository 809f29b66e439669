package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-positions/api"
	"stock-positions/config"
	"stock-positions/models"
)

const listJSON = `[{"ticker":"TCS","description":{"name":"Tata Consultancy Services"},"current_price":"3890.5","price_change":{"amount_change":-12.5,"percent_change":-0.32},"basic_info":{"Market Cap":"₹14,08,000 Cr"}}]`

const detailJSON = `{"description":{"name":"Tata Consultancy Services","about":"IT services"},"basic_info":{"Market Cap":"₹14,08,000 Cr","P/E":"29.10"},"pros_and_cons":{"pros":["Debt free"],"cons":["Slowing growth"]},"top_news":[{"name":"Q2 results","link":"https://example.com/q2"}]}`

func testConfig() *config.Config {
	return &config.Config{
		Origins: config.OriginConfig{
			Local:      "http://localhost:8000",
			Production: "https://prod.example.com",
		},
		Client: config.ClientConfig{Timeout: 2 * time.Second, UserAgent: "stocks-test"},
		Server: config.ServerConfig{QuoteWorkers: 2},
		Data:   config.DataConfig{QuoteProviders: []string{"mock"}},
	}
}

func newApp(cfg *config.Config) (*App, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	app := NewApp(cfg)
	app.Out = &out
	app.Err = &errOut
	app.Style = RawMarkdown
	return app, &out, &errOut
}

func run(t *testing.T, app *App, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet("stocks", flag.ContinueOnError)
	app.SetFlags(fs)
	cdr := subcommands.NewCommander(fs, "stocks")
	Register(cdr, app)
	require.NoError(t, fs.Parse(args))
	return cdr.Execute(context.Background())
}

func newBackend(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		switch r.URL.Path {
		case "/api/stocks":
			w.Write([]byte(listJSON))
		case "/api/search":
			w.Write([]byte(`[{"symbol":"TCS","name":"Tata Consultancy Services","exchange":"NSE"}]`))
		default:
			w.Write([]byte(detailJSON))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOriginCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"origin"}, "http://localhost:8000"},
		{[]string{"-hostname", "localhost", "origin"}, "http://localhost:8000"},
		{[]string{"-hostname", "127.0.0.1", "origin"}, "http://localhost:8000"},
		{[]string{"-hostname", "stocks.example.com", "origin"}, "https://prod.example.com"},
		{[]string{"-origin", "http://10.0.0.5:9000", "origin"}, "http://10.0.0.5:9000"},
	}
	for _, tt := range tests {
		app, out, _ := newApp(testConfig())
		require.Equal(t, subcommands.ExitSuccess, run(t, app, tt.args...), tt.args)
		assert.Equal(t, tt.want+"\n", out.String(), tt.args)
	}
}

func TestOriginFromEnvironment(t *testing.T) {
	cfg := testConfig()
	cfg.Origins.HostnameEnv = "STOCKS_TEST_PAGE_HOSTNAME"
	t.Setenv("STOCKS_TEST_PAGE_HOSTNAME", "stocks.example.com")

	app, out, _ := newApp(cfg)
	run(t, app, "origin")
	assert.Equal(t, "https://prod.example.com\n", out.String())
}

func TestListCommand(t *testing.T) {
	srv := newBackend(t, http.StatusOK)

	app, out, _ := newApp(testConfig())
	require.Equal(t, subcommands.ExitSuccess, run(t, app, "-origin", srv.URL, "list"))
	assert.Contains(t, out.String(), "| Tata Consultancy Services | TCS | 3890.5 | -12.50 (-0.32%) | ₹14,08,000 Cr |")

	app, out, _ = newApp(testConfig())
	require.Equal(t, subcommands.ExitSuccess, run(t, app, "-origin", srv.URL, "list", "-json"))
	var stocks []models.StockSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &stocks))
	require.Len(t, stocks, 1)
	assert.Equal(t, "TCS", stocks[0].Ticker)
}

func TestListCommandTerminalStyle(t *testing.T) {
	srv := newBackend(t, http.StatusOK)

	app, out, _ := newApp(testConfig())
	app.Style = "notty"
	require.Equal(t, subcommands.ExitSuccess, run(t, app, "-origin", srv.URL, "list"))
	assert.Contains(t, out.String(), "Tata Consultancy Services")
}

func TestListCommandBackendError(t *testing.T) {
	srv := newBackend(t, http.StatusInternalServerError)

	app, out, errOut := newApp(testConfig())
	assert.Equal(t, subcommands.ExitFailure, run(t, app, "-origin", srv.URL, "list"))
	assert.Empty(t, out.String())
	assert.True(t, strings.HasPrefix(errOut.String(), "Error: network response was not ok"), errOut.String())
}

func TestShowCommand(t *testing.T) {
	srv := newBackend(t, http.StatusOK)

	app, out, _ := newApp(testConfig())
	require.Equal(t, subcommands.ExitSuccess, run(t, app, "-origin", srv.URL, "show", "TCS"))
	assert.Contains(t, out.String(), "# Tata Consultancy Services")
	assert.Contains(t, out.String(), "- **P/E:** 29.10")
	assert.Contains(t, out.String(), "- [Q2 results](https://example.com/q2)")

	app, out, _ = newApp(testConfig())
	require.Equal(t, subcommands.ExitSuccess, run(t, app, "-origin", srv.URL, "show", "-path", `$.basic_info["Market Cap"]`, "TCS"))
	assert.Equal(t, "₹14,08,000 Cr\n", out.String())

	app, out, _ = newApp(testConfig())
	require.Equal(t, subcommands.ExitSuccess, run(t, app, "-origin", srv.URL, "show", "-path", "$.pros_and_cons.pros", "TCS"))
	assert.Equal(t, `["Debt free"]`+"\n", out.String())
}

func TestShowCommandUsage(t *testing.T) {
	app, _, errOut := newApp(testConfig())
	assert.Equal(t, subcommands.ExitUsageError, run(t, app, "show"))
	assert.Contains(t, errOut.String(), "exactly one ticker")
}

func TestSearchCommand(t *testing.T) {
	srv := newBackend(t, http.StatusOK)

	app, out, _ := newApp(testConfig())
	require.Equal(t, subcommands.ExitSuccess, run(t, app, "-origin", srv.URL, "search", "tata", "consultancy"))
	assert.Contains(t, out.String(), "# Search: tata consultancy")
	assert.Contains(t, out.String(), "| TCS | Tata Consultancy Services | NSE |")

	app, _, _ = newApp(testConfig())
	assert.Equal(t, subcommands.ExitUsageError, run(t, app, "search"))
}

func TestNewBackend(t *testing.T) {
	handler, closeFn, err := NewBackend(testConfig())
	require.NoError(t, err)
	defer closeFn()

	srv := httptest.NewServer(api.NewRouter(&api.Config{Handler: handler}))
	defer srv.Close()

	app, out, _ := newApp(testConfig())
	require.Equal(t, subcommands.ExitSuccess, run(t, app, "-origin", srv.URL, "list", "-json"))
	var stocks []models.StockSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &stocks))

	var tickers []string
	for _, s := range stocks {
		tickers = append(tickers, s.Ticker)
	}
	assert.Equal(t, []string{"RELIANCE", "TCS", "HDFCBANK", "INFY"}, tickers)

	app, out, _ = newApp(testConfig())
	require.Equal(t, subcommands.ExitSuccess, run(t, app, "-origin", srv.URL, "search", "infosys"))
	assert.Contains(t, out.String(), "INFY")

	app, out, _ = newApp(testConfig())
	require.Equal(t, subcommands.ExitSuccess, run(t, app, "-origin", srv.URL, "show", "-json", "tcs"))
	var detail models.StockDetail
	require.NoError(t, json.Unmarshal(out.Bytes(), &detail))
	assert.Equal(t, "Tata Consultancy Services Limited", detail.Description.Name)
	assert.Equal(t, "NSE", detail.BasicInfo["Exchange"])
}

func TestNewBackendUnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Data.QuoteProviders = []string{"nope"}
	_, _, err := NewBackend(cfg)
	assert.Error(t, err)
}

func TestCompletionCoversCommands(t *testing.T) {
	fs := flag.NewFlagSet("stocks", flag.ContinueOnError)
	cdr := subcommands.NewCommander(fs, "stocks")
	app, _, _ := newApp(testConfig())
	Register(cdr, app)

	tree := Completion()
	cdr.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		assert.Contains(t, tree.Sub, c.Name())
	})
	for _, name := range []string{"origin", "hostname", "timeout"} {
		assert.Contains(t, tree.Flags, name)
	}
}
