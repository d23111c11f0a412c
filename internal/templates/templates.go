// Package templates discovers container disk-image templates and derives
// the OS family from their filenames.
package templates

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"lxcforge/internal/provision"
)

var (
	// ErrNoTemplates means the template directory holds nothing matching
	// the configured glob. Nothing can be provisioned without a template,
	// so this is fatal.
	ErrNoTemplates = errors.New("no templates found")

	// ErrUnknownOSType means the template filename's leading token is not
	// a recognized OS family.
	ErrUnknownOSType = errors.New("unrecognized OS type")
)

// osFamilies maps the filename's leading token to the pct ostype tag.
var osFamilies = map[string]provision.OSType{
	"debian": provision.OSDebian,
	"ubuntu": provision.OSUbuntu,
	"centos": provision.OSCentOS,
	"arch":   provision.OSArch,
	"alpine": provision.OSAlpine,
}

// List returns the base names of all template archives under dir matching
// glob, sorted for stable menu order.
func List(dir, glob string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return nil, fmt.Errorf("failed to list templates in %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTemplates, dir)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)

	return names, nil
}

// OSTypeFromFilename derives the OS family from a template filename by
// its leading token, everything up to the first hyphen. Template naming
// follows the distribution convention, e.g.
// "debian-12-standard_12.7-1_amd64.tar.zst".
func OSTypeFromFilename(name string) (provision.OSType, error) {
	token, _, _ := strings.Cut(name, "-")

	osType, ok := osFamilies[token]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOSType, token)
	}

	return osType, nil
}
