package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultLinkPrefix is the route under which plans are reviewed.
const DefaultLinkPrefix = "/plan"

// PlanLink builds the review location for a plan, e.g. /plan/2026/c1.
func PlanLink(prefix string, key PlanKey) string {
	if prefix == "" {
		prefix = DefaultLinkPrefix
	}
	return fmt.Sprintf("%s/%d/%s", strings.TrimRight(prefix, "/"), key.Year, key.CoordinatorID)
}

// ParsePlanLink is the inverse of PlanLink.
func ParsePlanLink(prefix, link string) (PlanKey, error) {
	if prefix == "" {
		prefix = DefaultLinkPrefix
	}
	prefix = strings.TrimRight(prefix, "/") + "/"
	if !strings.HasPrefix(link, prefix) {
		return PlanKey{}, fmt.Errorf("link %q is not a plan link", link)
	}
	parts := strings.Split(strings.TrimPrefix(link, prefix), "/")
	if len(parts) != 2 || parts[1] == "" {
		return PlanKey{}, fmt.Errorf("link %q is not a plan link", link)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return PlanKey{}, fmt.Errorf("link %q: invalid year: %w", link, err)
	}
	return PlanKey{Year: year, CoordinatorID: parts[1]}, nil
}
