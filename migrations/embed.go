// Package migrations встраивает SQL миграции для cmd/migrate
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
