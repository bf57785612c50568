// Package tvr computes television ratings from panel spot data and caches
// the results.
//
// A TVR is delivered audience ÷ universe audience × 100. Two aggregation
// strategies coexist and are deliberately not unified:
//
//   - CalculateGlobal sums impacts and universe sizes across the whole spot
//     set and divides once. It answers "what fraction of the addressable
//     audience did this campaign reach" and backs the dashboard-facing
//     Service.CalculateTVR entry point.
//   - CalculatePerSpot averages the individual spot-level ratings. It
//     answers "what was the typical rating per airing" and backs the
//     plan/actual reconciliation, where the comparison target is a
//     per-spot negotiated deal rating.
//
// Given the same spot set the two strategies generally produce different
// values; callers must pick the one matching their question.
package tvr
