package catalog

import (
	"context"
	"fmt"

	"github.com/cadell/conjugo-api/internal/domain"
)

// Generator defines the interface for producing the full set of conjugated
// forms eligible under a region and settings combination. This interface is
// the boundary between the selection pipeline and the catalog: pool
// resolution depends only on it, never on the dataset directly.
type Generator interface {
	// GenerateAllForms produces every eligible form for the region and
	// settings. The returned slice is owned by the caller.
	GenerateAllForms(ctx context.Context, region string, settings domain.Settings) ([]domain.Form, error)
}

// CacheKey returns a deterministic signature of every setting that affects
// which forms are eligible. Two calls with the same region and settings
// always produce the same key; any change to an eligibility-relevant setting
// produces a different key. Targeting settings (practice mode, specific
// mood/tense) deliberately do not participate: they narrow selection, not
// eligibility.
func CacheKey(region string, settings domain.Settings) string {
	return fmt.Sprintf("v1|%s|%s|%s|%s|t=%t|v=%t|vos=%t",
		region,
		settings.Level,
		settings.VerbType,
		settings.FamilyFilter,
		settings.UseTuteo,
		settings.UseVoseo,
		settings.UseVosotros,
	)
}
