// Package db ships the SQL migrations of the fetch log.
package db

import "embed"

// Migrations holds the goose migration files, rooted at "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS
