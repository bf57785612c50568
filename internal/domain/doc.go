// Package domain defines the core business types for the LightBox TVR
// reconciliation engine.
//
// Types in this package are pure value objects. They are the shared
// language between the panel API client, the TVR services, and the
// repositories.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON/DB tags are allowed (they're metadata, not behavior)
//   - Pure functions on the types are allowed (audience resolution,
//     cache-key derivation, unit scaling)
//   - Constants and enums belong here
package domain
