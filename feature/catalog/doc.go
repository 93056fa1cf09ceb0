// Package catalog serves the lookup tables referenced by recipes: units,
// categories and time intervals.
//
// Endpoints, for each of /units, /categories and /time-intervals:
//   - GET /<resource>
//   - GET /<resource>/:id
//   - POST /<resource>
//   - PUT /<resource>/:id
//   - DELETE /<resource>/:id
//
// Deleting a unit still used by an ingredient is refused. Deleting a
// category removes its recipe links; deleting a time interval clears it from
// the recipes using it.
package catalog
