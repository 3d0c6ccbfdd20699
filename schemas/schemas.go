package schemas

import "embed"

// SchemasFS содержит все JSON-схемы событий, встроенные в бинарник.
//
//go:embed events
var SchemasFS embed.FS
