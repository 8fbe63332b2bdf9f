// Package migrations embeds the goose SQL migrations so the api and migrate
// binaries do not depend on the working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
