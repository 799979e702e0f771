// Package cinemaapi carries assets that have to be embedded from the module
// root, currently only the database migrations.
package cinemaapi

import "embed"

//go:embed migrations/*.sql
var MigrationFS embed.FS
