package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	urfavecli "github.com/urfave/cli/v2"

	"github.com/ewilliams-labs/moodlist/internal/cli"
	"github.com/ewilliams-labs/moodlist/internal/config"
)

func main() {
	_ = godotenv.Load()

	app := &urfavecli.App{
		Name:  "moodlist",
		Usage: "Turn a mood into a Spotify playlist of lesser-known songs.",
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:  "config",
				Value: "./moodlist.toml",
				Usage: "path to the TOML config file",
			},
		},
		Commands: []*urfavecli.Command{
			{
				Name:  "generate",
				Usage: "Describe a mood, review the picks, publish the playlist",
				Action: func(c *urfavecli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					// The terminal UI owns stdout; keep log noise down.
					logrus.SetLevel(logrus.WarnLevel)
					return cli.RunGenerate(c, cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
