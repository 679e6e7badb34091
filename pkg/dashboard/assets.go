package dashboard

import "embed"

// assetsFS holds the embedded front end: index.html plus the static
// scripts and styles it references.
//
//go:embed assets
var assetsFS embed.FS
