package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

func schemasCommand() *cli.Command {
	return &cli.Command{
		Name:   "schemas",
		Usage:  "Показать загруженные наборы транзакций и списки кодов",
		Action: runSchemas,
	}
}

func runSchemas(ctx *cli.Context) error {
	reg, err := loadRegistry(ctx)
	if err != nil {
		return err
	}

	ids := reg.TransactionSetIDs()
	sort.Strings(ids)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleColoredBright)
	t.SetTitle("Наборы транзакций")
	t.AppendHeader(table.Row{"#", "Идентификатор", "Верхнеуровневых узлов"})
	for i, id := range ids {
		nodes, _ := reg.Lookup(id)
		t.AppendRow(table.Row{i + 1, id, len(nodes)})
	}
	t.Render()

	names := reg.CodeListNames()
	sort.Strings(names)

	ct := table.NewWriter()
	ct.SetOutputMirror(os.Stdout)
	ct.SetStyle(table.StyleColoredBright)
	ct.SetTitle("Списки кодов")
	ct.AppendHeader(table.Row{"#", "Имя", "Кодов"})
	for i, name := range names {
		codes, _ := reg.CodeList(name)
		ct.AppendRow(table.Row{i + 1, name, len(codes)})
	}
	ct.Render()

	fmt.Printf("\nвсего наборов транзакций: %d, списков кодов: %d\n", len(ids), len(names))
	return nil
}
