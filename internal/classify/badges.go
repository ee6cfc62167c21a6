package classify

import "github.com/popguide/catalog-server/internal/catalog"

// Badge is a display marker shown on an item card
type Badge string

const (
	BadgeNewRelease  Badge = "New Release"
	BadgeComingSoon  Badge = "Coming Soon"
	BadgeExclusive   Badge = "Exclusive"
	BadgeVaulted     Badge = "Vaulted"
	BadgeChase       Badge = "Chase"
	BadgeFunkoEurope Badge = "Funko Europe"
)

// Badges returns the display badges for an item. Unlike status labels these
// read flags directly: Coming Soon here means a release date after the
// evaluation time.
func (r Rules) Badges(item *catalog.Item) []Badge {
	var out []Badge
	if item.HasSource(catalog.SourceNewReleases) {
		out = append(out, BadgeNewRelease)
	}
	if item.ReleaseDate != nil && item.ReleaseDate.After(r.now) {
		out = append(out, BadgeComingSoon)
	}
	if item.IsExclusive {
		out = append(out, BadgeExclusive)
	}
	if item.IsVaulted {
		out = append(out, BadgeVaulted)
	}
	if item.IsChase {
		out = append(out, BadgeChase)
	}
	if item.HasSource(catalog.SourceFunkoEurope) {
		out = append(out, BadgeFunkoEurope)
	}
	return out
}
