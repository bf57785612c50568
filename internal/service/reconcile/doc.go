// Package reconcile maps a campaign's planned delivery rows onto
// panel-measured actuals.
//
// The engine fetches the campaign's full spot set once and slices it per
// station client-side (the fast path). Station names drift between
// planning data and panel data, so matching runs through four successively
// looser strategies. When fewer than half of the distinct stations match
// any spots, the fast path is judged unreliable and the engine re-fetches
// with one dedicated, provider-filtered call per station (the slow path),
// trading API call volume for completeness.
package reconcile
