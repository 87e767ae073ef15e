package httpx

import "strings"

// ResolveAssetPath maps an image or file reference from backend data onto a
// servable URL. Backend-managed files (uploads, storage buckets) resolve to
// the backend origin, absolute URLs pass through, anything else is a local
// static asset.
func ResolveAssetPath(originURL, ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	trimmed := strings.TrimPrefix(ref, "/")
	switch {
	case strings.HasPrefix(trimmed, "uploads/"), strings.HasPrefix(trimmed, "storage/"):
		return strings.TrimSuffix(originURL, "/") + "/" + trimmed
	default:
		return "/static/" + trimmed
	}
}
