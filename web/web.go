// Package web bundles the HTML templates served by the router.
package web

import "embed"

// Templates holds every page template under template/.
//
//go:embed template/*.html
var Templates embed.FS
