// Package scaffold provides embedded template files for the folio new
// command.
package scaffold

import "embed"

// Templates contains all scaffold template files.
// Files with a .tmpl suffix use Go text/template syntax; others are copied as is.
//
//go:embed all:templates
var Templates embed.FS
