// Package admingateway provides embedded assets for production builds.
package admingateway

import "embed"

// StaticFS holds the dashboard's static assets for production builds.
// In dev mode (IsDev=true), assets are loaded from disk for hot reloading.
//
//go:embed all:frontend/static
var StaticFS embed.FS
