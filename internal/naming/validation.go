package naming

import (
	"fmt"
	"regexp"
)

var (
	// workspace: 3-33 chars, alphanumeric start, then alphanumerics, '-' or '_'.
	workspaceNameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{2,32}$`)
	// compute: 3-24 chars, letter start, letters/digits/hyphens, no trailing hyphen.
	computeNameRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]{1,22}[A-Za-z0-9]$`)
	// environment: up to 255 chars, alphanumeric start, then alphanumerics, '-', '_' or '.'.
	environmentNameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,254}$`)
)

func validate(re *regexp.Regexp, kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", kind)
	}
	if !re.MatchString(name) {
		return fmt.Errorf("invalid %s name %q", kind, name)
	}
	return nil
}

func ValidateWorkspaceName(name string) error {
	return validate(workspaceNameRE, "workspace", name)
}

func ValidateComputeName(name string) error {
	return validate(computeNameRE, "compute", name)
}

func ValidateEnvironmentName(name string) error {
	return validate(environmentNameRE, "environment", name)
}
