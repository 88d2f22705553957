package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/urfave/cli"

	"github.com/babylonchain/finality-verifier/config"
)

var InitCommand = cli.Command{
	Name:  "init",
	Usage: "Initialize the finalityverifierd home directory.",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  homeFlag,
			Usage: "Path to where the home directory will be initialized",
			Value: config.DefaultDir,
		},
		cli.BoolFlag{
			Name:  forceFlag,
			Usage: "Override existing configuration",
		},
	},
	Action: initHome,
}

func initHome(c *cli.Context) error {
	homePath, err := filepath.Abs(c.String(homeFlag))
	if err != nil {
		return err
	}
	homePath = cleanAndExpandPath(homePath)
	force := c.Bool(forceFlag)

	if _, err := os.Stat(homePath); err == nil && !force {
		return fmt.Errorf("home path %s already exists", homePath)
	}

	if err := os.MkdirAll(homePath, 0o750); err != nil {
		return err
	}

	defaultConfig := config.DefaultConfig()
	fileParser := flags.NewParser(defaultConfig, flags.Default)

	return flags.NewIniParser(fileParser).WriteFile(config.ConfigFile(homePath), flags.IniIncludeComments|flags.IniIncludeDefaults)
}
