package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"x12codec/delimiter"
	"x12codec/encoder"
)

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "Сформировать X12 EDI текст из документа",
		ArgsUsage: "<документ.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "set",
				Aliases:  []string{"s"},
				Usage:    "Идентификатор набора транзакций (например 810)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Файл для записи результата (по умолчанию stdout)",
			},
			&cli.StringFlag{Name: "segment-sep", Usage: "Разделитель сегментов"},
			&cli.StringFlag{Name: "element-sep", Usage: "Разделитель элементов"},
			&cli.StringFlag{Name: "repeat-sep", Usage: "Разделитель повторений"},
			&cli.StringFlag{Name: "component-sep", Usage: "Разделитель составных элементов"},
		},
		Action: runEncode,
	}
}

func runEncode(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("требуется путь к файлу документа")
	}

	reg, err := loadRegistry(ctx)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("не удалось прочитать документ: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("неверный JSON документа: %w", err)
	}

	delims := delimiter.Default()
	if v := ctx.String("segment-sep"); v != "" {
		delims.Segment = v
	}
	if v := ctx.String("element-sep"); v != "" {
		delims.Element = v
	}
	if v := ctx.String("repeat-sep"); v != "" {
		delims.Repeat = v
	}
	if v := ctx.String("component-sep"); v != "" {
		delims.Component = v
	}

	text, err := encoder.Encode(reg, doc, ctx.String("set"), delims)
	if err != nil {
		return fmt.Errorf("ошибка кодирования: %w", err)
	}

	if out := ctx.String("out"); out != "" {
		if err := os.WriteFile(out, []byte(text), 0644); err != nil {
			return fmt.Errorf("не удалось записать результат: %w", err)
		}
		return nil
	}

	fmt.Print(text)
	return nil
}
