package upstream

import "strings"

// ImageResolver turns stored image paths into displayable URLs. The platform
// stores bare relative paths for its own uploads but some records carry
// already-absolute URLs; both must render.
type ImageResolver struct {
	origin string
}

func NewImageResolver(origin string) *ImageResolver {
	return &ImageResolver{origin: strings.TrimRight(origin, "/")}
}

// Resolve prefixes bare relative paths with the image origin and passes
// absolute URLs through untouched. Empty input stays empty.
func (r *ImageResolver) Resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return r.origin + "/" + strings.TrimLeft(path, "/")
}

// ResolveAll maps Resolve over a path list, dropping empties.
func (r *ImageResolver) ResolveAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if resolved := r.Resolve(p); resolved != "" {
			out = append(out, resolved)
		}
	}
	return out
}
