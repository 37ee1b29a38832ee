package diagfmt

import (
	"path/filepath"

	"pseudo/internal/source"
)

// autoPathLimit is the length above which auto mode prints only the basename.
const autoPathLimit = 40

func formatPath(f *source.File, mode PathMode, baseDir string) string {
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		if f.Flags&source.FileVirtual != 0 {
			return f.Path
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if rel, err := source.RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case PathModeBasename:
		return filepath.Base(f.Path)
	case PathModeAuto:
		// длинные абсолютные пути сокращаем до имени файла
		if len(f.Path) >= autoPathLimit && filepath.IsAbs(f.Path) {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
