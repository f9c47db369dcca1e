package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"decentraspace/config"
	"decentraspace/core"
	coreevents "decentraspace/core/events"
	"decentraspace/core/genesis"
	"decentraspace/core/types"
	"decentraspace/observability/logging"
	"decentraspace/rpc"
	"decentraspace/storage"
)

const envVar = "DSPACE_ENV"

// eventLogger surfaces committed ledger events on the structured log so
// off-chain indexers tailing the daemon can reconstruct mutations.
type eventLogger struct {
	log *slog.Logger
}

func (e eventLogger) Emit(evt coreevents.Event) {
	if evt == nil {
		return
	}
	attrs := []any{slog.String("event", evt.EventType())}
	if carrier, ok := evt.(interface{ Event() *types.Event }); ok {
		if payload := carrier.Event(); payload != nil {
			for key, value := range payload.Attributes {
				attrs = append(attrs, slog.String(key, value))
			}
		}
	}
	e.log.Info("ledger event", attrs...)
}

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	genesisFlag := flag.String("genesis", "", "Path to a genesis allocation JSON file (overrides config GenesisFile)")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv(envVar))
	logger := logging.Setup("spaced", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err), slog.String("dataDir", cfg.DataDir))
		os.Exit(1)
	}
	defer db.Close()

	ledger := core.NewLedger(db,
		core.WithEmitter(eventLogger{log: logger}),
		core.WithLimits(core.Limits{
			MaxName:        cfg.MaxNameLength,
			MaxDescription: cfg.MaxDescriptionLength,
			MaxTitle:       cfg.MaxTitleLength,
			MaxCID:         cfg.MaxCIDLength,
			MaxLink:        cfg.MaxLinkLength,
		}),
	)

	genesisPath := strings.TrimSpace(*genesisFlag)
	if genesisPath == "" {
		genesisPath = strings.TrimSpace(cfg.GenesisFile)
	}
	if genesisPath != "" {
		g, err := genesis.Load(genesisPath)
		if err != nil {
			logger.Error("failed to load genesis", slog.Any("error", err), slog.String("path", genesisPath))
			os.Exit(1)
		}
		if err := ledger.InitGenesis(g); err != nil {
			logger.Error("failed to apply genesis", slog.Any("error", err))
			os.Exit(1)
		}
	}

	logger.Info("ledger ready", slog.String("network", cfg.NetworkName))

	server := rpc.NewServer(ledger,
		rpc.WithLogger(logger),
		rpc.WithRateLimit(cfg.RPCRateLimit, cfg.RPCRateBurst),
	)
	if err := server.Start(cfg.ListenAddress); err != nil {
		fmt.Fprintf(os.Stderr, "rpc server stopped: %v\n", err)
		os.Exit(1)
	}
}
