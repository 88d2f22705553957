package daemon

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/babylonchain/finality-verifier/config"
	"github.com/babylonchain/finality-verifier/finality"
)

const epochFlag = "epoch"

// InspectCommand prints a running configuration's chain parameters and the
// block range a given epoch covers. There is no RPC surface to query a
// live daemon's registry state (network transport stays out of scope), so
// inspection is limited to what the on-disk config determines.
var InspectCommand = cli.Command{
	Name:  "inspect",
	Usage: "Print the daemon's configuration and epoch boundaries.",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  homeFlag,
			Usage: "The path to the finalityverifierd home directory",
			Value: config.DefaultDir,
		},
		cli.Uint64Flag{
			Name:  epochFlag,
			Usage: "Epoch number to print the block range for",
			Value: 1,
		},
	},
	Action: inspectFn,
}

func inspectFn(c *cli.Context) error {
	path, err := filepath.Abs(c.String(homeFlag))
	if err != nil {
		return err
	}
	homePath := cleanAndExpandPath(path)

	cfg, err := config.LoadConfig(homePath)
	if err != nil {
		return fmt.Errorf("failed to load config at %s: %w", homePath, err)
	}

	epoch := c.Uint64(epochFlag)
	fcfg := finality.Config{ChainID: cfg.ChainID, StartBlock: cfg.StartBlock, EpochSize: cfg.EpochSize}

	fmt.Printf("chain_id=%d start_block=%d epoch_size=%d\n", cfg.ChainID, cfg.StartBlock, cfg.EpochSize)
	fmt.Printf("epoch=%d from_block=%d to_block=%d\n", epoch, fcfg.FromBlock(epoch), fcfg.ToBlock(epoch))
	fmt.Printf("oracle_rpc=%s metrics_listener=%s\n", cfg.OracleRPC, cfg.MetricsListener)
	return nil
}
