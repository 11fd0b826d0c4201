package media

import (
	"fmt"
	"path"
	"strings"

	"github.com/standardbeagle/vaultproc/internal/config"
)

// variantFilename builds "<stem>[-<sizeSuffix>].<format>"; "original" never
// gets a size suffix.
func variantFilename(stem, sizeName, format string) string {
	if sizeName == "original" {
		return fmt.Sprintf("%s.%s", stem, format)
	}
	return fmt.Sprintf("%s-%s.%s", stem, sizeName, format)
}

// layout computes the media-output-relative path for one variant, following
// spec.md §4.2's three layout modes.
func layout(cfg *config.Config, sourceRelDir, stem, contentHash, sizeName, format string) string {
	filename := variantFilename(stem, sizeName, format)

	if !cfg.Media.UseHash {
		return path.Join(sourceRelDir, filename)
	}

	hashedFilename := variantFilename(contentHash, sizeName, format)
	if cfg.Media.UseHashSharding && len(contentHash) >= 2 {
		return path.Join(contentHash[:2], hashedFilename)
	}
	return hashedFilename
}

// publicPath prepends the configured mediaPrefix and normalizes separators.
func publicPath(cfg *config.Config, mediaRelPath string) string {
	prefix := strings.TrimSuffix(cfg.Paths.MediaPrefix, "/")
	return prefix + "/" + strings.TrimPrefix(mediaRelPath, "/")
}

// absolutePublicPath composes domain + public path, present iff a domain is
// configured.
func absolutePublicPath(cfg *config.Config, pub string) string {
	if cfg.Paths.Domain == "" {
		return ""
	}
	return strings.TrimSuffix(cfg.Paths.Domain, "/") + pub
}
