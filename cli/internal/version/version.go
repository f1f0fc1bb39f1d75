// Package version reports the frm build version.
package version

import (
	"fmt"
	"runtime"

	goversion "github.com/hashicorp/go-version"

	"github.com/satishbabariya/frm-go/schema/dsl"
)

var (
	// Version is the version of the CLI.
	Version = "0.1.0"
	// BuildDate is the build date.
	BuildDate = "unknown"
	// GitCommit is the git commit hash.
	GitCommit = "unknown"
)

// Info holds version information.
type Info struct {
	Version         string
	LanguageVersion string
	BuildDate       string
	GitCommit       string
	GoVersion       string
	Platform        string
}

// Get returns version information.
func Get() Info {
	return Info{
		Version:         Version,
		LanguageVersion: dsl.LanguageVersion,
		BuildDate:       BuildDate,
		GitCommit:       GitCommit,
		GoVersion:       runtime.Version(),
		Platform:        fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a one-line version string.
func (i Info) String() string {
	return fmt.Sprintf("frm version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString returns a detailed version string.
func (i Info) FullString() string {
	return fmt.Sprintf(`frm version %s
Declaration language: %s
Build Date: %s
Git Commit: %s
Platform: %s
Go Version: %s`, i.Version, i.LanguageVersion, i.BuildDate, i.GitCommit, i.Platform, i.GoVersion)
}

// Satisfies reports whether the CLI version meets constraint, e.g. ">= 0.1, < 1.0".
func (i Info) Satisfies(constraint string) (bool, error) {
	c, err := goversion.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := goversion.NewVersion(i.Version)
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", i.Version, err)
	}
	return c.Check(v), nil
}
