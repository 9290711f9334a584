package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/SThor/spendform/pkg/config"
	"github.com/SThor/spendform/pkg/feed"
	"github.com/SThor/spendform/pkg/models"
	"github.com/SThor/spendform/pkg/server"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "spendform",
	})

	var (
		port     = flag.String("port", "3000", "Server port")
		cfgFile  = flag.String("config", "", "Config file (default is config.yaml)")
		fixtures = flag.String("fixtures", "", "Fixtures file to use instead of live APIs")
	)
	flag.Parse()

	cfg, err := config.Build(*cfgFile, nil)
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	dataset, err := feed.Load(logger, cfg, *fixtures)
	if err != nil {
		logger.Fatal("failed to load dataset", "err", err)
	}

	var history server.HistoryFunc
	if *fixtures == "" {
		history = func(payeeID string) ([]models.PayeeTransaction, error) {
			return feed.PayeeHistory(cfg, payeeID)
		}
	}

	srv := server.New(cfg, dataset, history, logger)
	addr := fmt.Sprintf("0.0.0.0:%s", *port)
	logger.Info("starting server", "addr", addr)
	if err := srv.Start(addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
