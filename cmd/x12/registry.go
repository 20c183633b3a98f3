package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"x12codec/schema"
)

func loadRegistry(ctx *cli.Context) (*schema.Registry, error) {
	formatsDir := ctx.String("formats")
	codesDir := ctx.String("codes")
	reg, err := schema.NewBuilder(formatsDir, codesDir).Load()
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить схему: %w", err)
	}
	return reg, nil
}
