// Command x12 is a thin CLI boundary over the schema loader, encoder,
// decoder and validator — no business logic lives here.
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	appName    = "x12"
	appVersion = "1.0.0"
)

func main() {
	app := &cli.App{
		Name:    appName,
		Usage:   "Кодек и валидатор X12 EDI",
		Version: appVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "formats",
				Aliases:  []string{"f"},
				Usage:    "Директория с JSON-описаниями форматов транзакций",
				Required: true,
				EnvVars:  []string{"X12_FORMATS_DIR"},
			},
			&cli.StringFlag{
				Name:     "codes",
				Aliases:  []string{"c"},
				Usage:    "Директория со списками кодов",
				Required: true,
				EnvVars:  []string{"X12_CODES_DIR"},
			},
		},
		Commands: []*cli.Command{
			encodeCommand(),
			decodeCommand(),
			validateCommand(),
			schemasCommand(),
			queryCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
