// Package migrations embeds the SQL schema for every supported storage driver.
package migrations

import (
	"embed"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// FS holds one directory of golang-migrate files per driver ("postgres", "sqlite").
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Source returns a golang-migrate source reading the embedded files for driver.
func Source(driver string) (source.Driver, error) {
	return iofs.New(FS, driver)
}
