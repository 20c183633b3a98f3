package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"

	"x12codec/decoder"
)

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Декодировать EDI и выполнить jq выражение над документом",
		ArgsUsage: "<файл.edi> <jq-выражение>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "set",
				Usage: "Принудительный идентификатор набора транзакций (иначе берётся из ST01)",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Форматированный вывод JSON",
				Value: true,
			},
		},
		Action: runQuery,
	}
}

func runQuery(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return fmt.Errorf("требуется файл.edi и jq-выражение")
	}

	reg, err := loadRegistry(ctx)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("не удалось прочитать файл: %w", err)
	}

	_, doc, err := decoder.Decode(reg, string(raw), decoder.Options{
		TransactionSetID: ctx.String("set"),
		Logger:           log.New(os.Stderr, "", 0),
	})
	if err != nil {
		return fmt.Errorf("ошибка декодирования: %w", err)
	}

	jqQuery, err := gojq.Parse(ctx.Args().Get(1))
	if err != nil {
		return fmt.Errorf("ошибка парсинга jq-запроса: %w", err)
	}

	iter := jqQuery.Run(toJQInput(doc))
	pretty := ctx.Bool("pretty")
	count := 0
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return fmt.Errorf("ошибка выполнения jq-запроса: %w", err)
		}
		count++
		if err := printJSON(v, pretty); err != nil {
			return err
		}
	}

	if count == 0 {
		fmt.Fprintln(os.Stderr, "jq-запрос не вернул результатов")
	}
	return nil
}

// toJQInput converts the document's decoder-produced time.Time leaves to
// RFC3339 strings: gojq operates on encoding/json-shaped values and has no
// native time.Time support.
func toJQInput(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = toJQInput(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = toJQInput(child)
		}
		return out
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return v
	}
}
