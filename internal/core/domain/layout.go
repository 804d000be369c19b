package domain

import (
	"os"
	"path/filepath"
)

const (
	// MasonDirName is the name of the metadata directory under the
	// build root.
	MasonDirName = ".mason"

	// SharedCacheFileName is the variant-independent key/value cache.
	SharedCacheFileName = "cache.json"

	// VariantCacheFileName is the per-variant key/value cache.
	VariantCacheFileName = "cache.json"

	// BuildLogFileName is the per-variant output-path to fingerprint log.
	BuildLogFileName = "buildlog.json"

	// ManifestFileName is the default project description file.
	ManifestFileName = "mason.yaml"

	// EnvBuildRoot names the environment variable selecting the build
	// root directory.
	EnvBuildRoot = "MASON_BUILD_ROOT"

	// EnvVariant names the environment variable selecting the build
	// variant.
	EnvVariant = "MASON_VARIANT"

	// DefaultBuildRoot is used when EnvBuildRoot is unset.
	DefaultBuildRoot = "build"

	// DefaultVariant is used when EnvVariant is unset.
	DefaultVariant = "debug"

	// DirPerm is the default permission for created directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for created files (rw-r--r--).
	FilePerm = 0o644
)

// Layout locates the persisted engine state for one build root and
// variant. The variant namespaces the per-variant files so distinct
// variants never collide.
type Layout struct {
	Root    string
	Variant string
}

// LayoutFromEnv builds a Layout from MASON_BUILD_ROOT and MASON_VARIANT,
// falling back to the defaults.
func LayoutFromEnv() Layout {
	l := Layout{Root: os.Getenv(EnvBuildRoot), Variant: os.Getenv(EnvVariant)}
	if l.Root == "" {
		l.Root = DefaultBuildRoot
	}
	if l.Variant == "" {
		l.Variant = DefaultVariant
	}
	return l
}

func (l Layout) metaDir() string {
	return filepath.Join(l.Root, MasonDirName)
}

// SharedCachePath returns the variant-independent cache file path.
func (l Layout) SharedCachePath() string {
	return filepath.Join(l.metaDir(), SharedCacheFileName)
}

// VariantCachePath returns the per-variant cache file path.
func (l Layout) VariantCachePath() string {
	return filepath.Join(l.metaDir(), l.Variant, VariantCacheFileName)
}

// BuildLogPath returns the per-variant build log file path.
func (l Layout) BuildLogPath() string {
	return filepath.Join(l.metaDir(), l.Variant, BuildLogFileName)
}

// ModuleOutDir returns the conventional output directory for a module's
// generated files under this layout.
func (l Layout) ModuleOutDir(module string) string {
	return filepath.Join(l.Root, l.Variant, module)
}
