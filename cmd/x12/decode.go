package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"x12codec/decoder"
)

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Разобрать X12 EDI текст в документ",
		ArgsUsage: "<файл.edi>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "set",
				Usage: "Принудительный идентификатор набора транзакций (иначе берётся из ST01)",
			},
			&cli.BoolFlag{
				Name:  "group",
				Usage: "Разобрать как GS/GE группу из нескольких ST/SE пар",
			},
			&cli.BoolFlag{
				Name:  "with-order",
				Usage: "Включить порядок появления сегментов в вывод",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Форматированный вывод JSON",
				Value: true,
			},
		},
		Action: runDecode,
	}
}

func runDecode(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("требуется путь к .edi файлу")
	}

	reg, err := loadRegistry(ctx)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("не удалось прочитать файл: %w", err)
	}

	opts := decoder.Options{
		TransactionSetID: ctx.String("set"),
		Logger:           log.New(os.Stderr, "", 0),
	}

	var result any
	if ctx.Bool("group") {
		docs, err := decoder.ParseSetGroup(reg, string(raw), opts)
		if err != nil {
			return fmt.Errorf("ошибка декодирования: %w", err)
		}
		result = docs
	} else {
		order, doc, err := decoder.Decode(reg, string(raw), opts)
		if err != nil {
			return fmt.Errorf("ошибка декодирования: %w", err)
		}
		if ctx.Bool("with-order") {
			result = map[string]any{"order": order, "document": doc}
		} else {
			result = doc
		}
	}

	return printJSON(result, ctx.Bool("pretty"))
}

func printJSON(v any, pretty bool) error {
	var out []byte
	var err error
	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("ошибка сериализации JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
