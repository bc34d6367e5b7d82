// Package metrics computes per-creator engagement, footprint, business
// presence, and growth figures from platform snapshots.
package metrics

import (
	"math"
	"sort"

	"github.com/prairielab/credence/internal/model"
)

// Engine computes cross-platform metrics for a single creator. Stateless;
// safe for concurrent use across creators.
type Engine struct {
	platforms model.PlatformConfig
}

// NewEngine creates a metrics engine with the given platform weight policy
func NewEngine(platforms model.PlatformConfig) *Engine {
	return &Engine{platforms: platforms}
}

// businessIndicator is one predicate of the business presence index. The
// index is a pure reduction over this list; adding an indicator never
// touches the aggregation.
type businessIndicator struct {
	name string
	hit  func(model.BusinessRecord) bool
}

var businessIndicators = []businessIndicator{
	{"registered_entity", func(b model.BusinessRecord) bool {
		return b.EntityType != "" && b.EntityType != model.EntityUnknown && b.EntityType != model.EntityNotApplicable
	}},
	{"agency_affiliation", func(b model.BusinessRecord) bool {
		return b.AgencyAffiliation != ""
	}},
	{"visible_pricing", func(b model.BusinessRecord) bool {
		return b.PricingVisible == model.PricingYes || b.PricingVisible == model.PricingPartial
	}},
	{"shopfront", func(b model.BusinessRecord) bool {
		return len(b.Shopfronts) > 0
	}},
	{"payment_methods", func(b model.BusinessRecord) bool {
		return len(b.PaymentMethods) > 0
	}},
}

// Compute derives the metrics block for one creator. snapshots are the
// current observations (latest row per platform wins), prior30d the
// observations from thirty days earlier used for growth. business may be
// nil. Negative counts and duplicate (platform, date) keys are fatal.
func (e *Engine) Compute(snapshots []model.PlatformSnapshot, business *model.BusinessRecord, prior30d []model.PlatformSnapshot) (model.Metrics, error) {
	current, err := latestPerPlatform(snapshots)
	if err != nil {
		return model.Metrics{}, err
	}
	prior, err := latestPerPlatform(prior30d)
	if err != nil {
		return model.Metrics{}, err
	}

	result := model.Metrics{
		PlatformCount: len(current),
	}

	// Engagement: defined only where the denominator is observable. A
	// platform with zero or missing followers contributes nothing rather
	// than a manufactured zero.
	engagement := make(map[model.Platform]float64)
	engagementSum := 0.0
	for _, platform := range sortedPlatforms(current) {
		rate := engagementRate(current[platform])
		if rate != nil {
			engagement[platform] = *rate
			engagementSum += *rate
		}
	}
	if len(engagement) > 0 {
		mean := engagementSum / float64(len(engagement))
		result.EngagementRate = &mean
		result.EngagementByPlatform = engagement
	}

	// Footprint: absence of observed reach counts as zero reach, distinct
	// from an undefined engagement rate.
	for _, platform := range sortedPlatforms(current) {
		snap := current[platform]
		followers := 0.0
		if snap.Followers != nil {
			followers = *snap.Followers
		}
		result.FootprintScore += math.Log1p(followers) * e.platforms.Weight(platform)
		result.TotalFollowers += followers
	}

	if business != nil {
		for _, indicator := range businessIndicators {
			if indicator.hit(*business) {
				result.BusinessPresenceIndex++
			}
		}
	}

	growth := make(map[model.Platform]float64)
	var weightedSum, weightTotal float64
	// Iteration in platform order keeps float accumulation deterministic.
	for _, platform := range sortedPlatforms(current) {
		snap := current[platform]
		prev, ok := prior[platform]
		if !ok || prev.Followers == nil || *prev.Followers <= 0 || snap.Followers == nil {
			continue
		}
		if prev.Date == snap.Date {
			// Same observation on both sides of the window: no growth info.
			continue
		}
		rate := (*snap.Followers - *prev.Followers) / *prev.Followers
		growth[platform] = rate
		// Weighted by current followers so a tiny secondary account's
		// volatile percentage cannot dilute the creator-level rate.
		weightedSum += rate * *snap.Followers
		weightTotal += *snap.Followers
	}
	if len(growth) > 0 {
		result.GrowthByPlatform = growth
		if weightTotal > 0 {
			mean := weightedSum / weightTotal
			result.GrowthRate30d = &mean
		}
	}

	return result, nil
}

// engagementRate returns (likes + comments) / followers, or nil when any
// input needed for a meaningful rate is unobserved
func engagementRate(snap model.PlatformSnapshot) *float64 {
	if snap.Followers == nil || *snap.Followers <= 0 {
		return nil
	}
	if snap.AvgLikesPost == nil || snap.AvgCommentsPost == nil {
		return nil
	}
	rate := (*snap.AvgLikesPost + *snap.AvgCommentsPost) / *snap.Followers
	return &rate
}

// latestPerPlatform validates the snapshot list and reduces it to the most
// recent row per platform. Two rows sharing a (platform, date) key violate
// the uniqueness invariant and are rejected rather than resolved.
func latestPerPlatform(snapshots []model.PlatformSnapshot) (map[model.Platform]model.PlatformSnapshot, error) {
	type key struct {
		platform model.Platform
		date     model.Date
	}
	seen := make(map[key]bool, len(snapshots))
	latest := make(map[model.Platform]model.PlatformSnapshot)

	for _, snap := range snapshots {
		if err := checkCounts(snap); err != nil {
			return nil, err
		}
		k := key{snap.Platform, snap.Date}
		if seen[k] {
			return nil, &model.AmbiguousSnapshotError{Platform: snap.Platform, Date: snap.Date}
		}
		seen[k] = true

		if prev, ok := latest[snap.Platform]; !ok || prev.Date.Before(snap.Date) {
			latest[snap.Platform] = snap
		}
	}
	return latest, nil
}

func checkCounts(snap model.PlatformSnapshot) error {
	fields := []struct {
		name  string
		value *float64
	}{
		{"followers", snap.Followers},
		{"avg_likes_post", snap.AvgLikesPost},
		{"avg_comments_post", snap.AvgCommentsPost},
	}
	for _, f := range fields {
		if f.value != nil && *f.value < 0 {
			return &model.RangeError{
				Field: f.name, ID: snap.CreatorID, Value: *f.value, Min: 0, Max: math.Inf(1),
			}
		}
	}
	return nil
}

func sortedPlatforms(m map[model.Platform]model.PlatformSnapshot) []model.Platform {
	platforms := make([]model.Platform, 0, len(m))
	for p := range m {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })
	return platforms
}
