package utils

import "regexp"

var (
	// GitHub login rules: alphanumeric with non-leading/trailing single hyphens
	organizationPattern = regexp.MustCompile(`^[a-zA-Z0-9](?:-?[a-zA-Z0-9]){0,38}$`)
	teamSlugPattern     = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,98}[a-z0-9])?$`)
)

// ValidateOrganization checks that name is a plausible GitHub organization
// login before it is interpolated into an API path.
func ValidateOrganization(name string) error {
	if name == "" {
		return ErrEmptyOrganization
	}
	if !organizationPattern.MatchString(name) {
		return ErrInvalidOrganization
	}
	return nil
}

// ValidateTeamSlug checks that slug is a plausible GitHub team slug.
func ValidateTeamSlug(slug string) error {
	if slug == "" {
		return ErrEmptyTeamSlug
	}
	if !teamSlugPattern.MatchString(slug) {
		return ErrInvalidTeamSlug
	}
	return nil
}
