// Package migrations embebe los scripts SQL para golang-migrate (fuente iofs).
package migrations

import "embed"

// FS contiene los archivos NNNNNN_nombre.{up,down}.sql.
//
//go:embed *.sql
var FS embed.FS
