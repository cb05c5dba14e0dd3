package main

import (
	"rentalhub/internal/infra/persistence/postgres"

	"gorm.io/gen"
)

// Generates type-safe query helpers for every table the service migrates.
func main() {
	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
		Mode:    gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	gen.ApplyBasic(postgres.Models()...)

	gen.Execute()
}
