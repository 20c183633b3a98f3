package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"x12codec/validator"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Проверить декодированный документ по схеме",
		ArgsUsage: "<документ.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "set",
				Aliases:  []string{"s"},
				Usage:    "Идентификатор набора транзакций (например 810)",
				Required: true,
			},
		},
		Action: runValidate,
	}
}

func runValidate(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("требуется путь к файлу документа")
	}

	reg, err := loadRegistry(ctx)
	if err != nil {
		return err
	}

	nodes, ok := reg.Lookup(ctx.String("set"))
	if !ok {
		return fmt.Errorf("набор транзакций %q не зарегистрирован", ctx.String("set"))
	}

	raw, err := os.ReadFile(ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("не удалось прочитать документ: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("неверный JSON документа: %w", err)
	}

	errs := validator.Validate(doc, nodes)
	for _, e := range errs {
		fmt.Println(e.Error())
	}

	if len(errs) > 0 {
		return cli.Exit(fmt.Sprintf("найдено нарушений: %d", len(errs)), 1)
	}

	fmt.Println("документ прошёл проверку без замечаний")
	return nil
}
