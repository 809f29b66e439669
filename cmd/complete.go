package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"stock-positions/loader"
)

// Completion describes the command line for shell completion. Tickers are
// predicted from the default catalog.
func Completion() *complete.Command {
	var tickers predict.Set
	for _, s := range loader.DefaultCatalog() {
		tickers = append(tickers, s.Symbol)
	}

	serverFlags := map[string]complete.Predictor{"addr": predict.Something}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"origin":   predict.Something,
			"hostname": predict.Set{"localhost", "127.0.0.1"},
			"timeout":  predict.Something,
			"style":    predict.Set{"auto", "dark", "light", "notty", "ascii", RawMarkdown},
			"width":    predict.Something,
		},
		Sub: map[string]*complete.Command{
			"list":   {Flags: map[string]complete.Predictor{"json": predict.Nothing}},
			"show":   {Args: tickers, Flags: map[string]complete.Predictor{"json": predict.Nothing, "path": predict.Something}},
			"search": {Args: predict.Something},
			"origin": {},
			"serve":  {Flags: serverFlags},
			"web":    {Flags: serverFlags},
		},
	}
}
