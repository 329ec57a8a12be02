// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `LoadFrom` calls `validateStruct` immediately after it unmarshals the
// merged Koanf tree into a `Config` instance.  Any tag mismatch or
// validation error aborts startup, ensuring the binary never runs with
// partial, malformed, or missing configuration.
//
// Rules in use: `required`, `hostname_port`, and `oneof`.  One cross-field
// check (pooled access to an in-memory SQLite database) runs after the tag
// rules.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/lacasailpaese/vetrina/internal/database"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Database.Pooled && c.Database.Driver == "sqlite" && database.IsMemory(c.Database.DSN) {
		return fmt.Errorf("database.pooled cannot be used with an in-memory sqlite database")
	}
	return nil
}
