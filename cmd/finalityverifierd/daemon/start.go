package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lightningnetwork/lnd/signal"
	"github.com/urfave/cli"

	"github.com/babylonchain/finality-verifier/config"
	"github.com/babylonchain/finality-verifier/finality"
	"github.com/babylonchain/finality-verifier/log"
	"github.com/babylonchain/finality-verifier/metrics"
	"github.com/babylonchain/finality-verifier/oracle"
	"github.com/babylonchain/finality-verifier/pubrand"
)

var StartCommand = cli.Command{
	Name:  "start",
	Usage: "Start the finality verification daemon.",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  homeFlag,
			Usage: "The path to the finalityverifierd home directory",
			Value: config.DefaultDir,
		},
	},
	Action: startFn,
}

func startFn(ctx *cli.Context) error {
	path, err := filepath.Abs(ctx.String(homeFlag))
	if err != nil {
		return fmt.Errorf("failed to load home flag: %w", err)
	}
	homePath := cleanAndExpandPath(path)

	cfg, err := config.LoadConfig(homePath)
	if err != nil {
		return fmt.Errorf("failed to load config at %s: %w", homePath, err)
	}

	logFile, err := os.OpenFile(config.LogFile(homePath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger, err := log.NewSugared(cfg.LogFormat, cfg.LogLevel, "finalityverifierd", logFile)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	shutdown, err := signal.Intercept()
	if err != nil {
		return err
	}

	// The concrete oracle backend (an RPC client against cfg.OracleRPC) is
	// a host-specific external collaborator outside this verifier's
	// scope; the daemon wires a process-local MemoryOracle so operators
	// can exercise the registry and aggregator end to end; library users
	// supply their own finality.Oracle implementation instead.
	backingOracle := oracle.NewMemoryOracle(0)

	activity := metrics.NewActivityTracker()

	reg := pubrand.NewRegistry(pubrand.Config{
		ChainID:    cfg.ChainID,
		StartBlock: cfg.StartBlock,
		EpochSize:  cfg.EpochSize,
	}, backingOracle, logger)
	reg.SetMetrics(metrics.NewRegistryMetrics())
	reg.SetActivityTracker(activity)

	agg := finality.NewAggregator(finality.Config{
		ChainID:    cfg.ChainID,
		StartBlock: cfg.StartBlock,
		EpochSize:  cfg.EpochSize,
	}, reg, backingOracle, logger)
	agg.SetMetrics(metrics.NewAggregatorMetrics())
	agg.SetActivityTracker(activity)

	metricsServer := metrics.StartServer(cfg.MetricsListener, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		metricsServer.Stop(shutdownCtx)
	}()

	logger.Infow("finalityverifierd started", "chain_id", cfg.ChainID, "start_block", cfg.StartBlock, "epoch_size", cfg.EpochSize)

	<-shutdown.ShutdownChannel()
	logger.Infow("finalityverifierd shutting down")
	return nil
}
