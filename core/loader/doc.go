// Package loader registers features on the Fiber app in a fixed order.
//
// A feature bundles its service, handler and routes behind the Feature
// interface. The start command builds every feature from shared
// dependencies (database, media helper, cache, logger), registers them on a
// Manager and calls LoadAll once the global middleware is in place.
//
// Disabled features are skipped and logged; the first Load error aborts
// startup.
//
// Registered today: recipes, catalog (units, categories, time intervals)
// and integrity.
package loader
