// Package recipes serves the recipe aggregate: a recipe with its
// ingredients, instructions, media and category links.
//
// Writes go through Service. UpdateOne loads the stored aggregate, reconciles
// each child collection into one pending change set (ingredients, then
// instructions, then media, then category links), overwrites the recipe's
// scalar fields and commits the set in a single transaction. Media files are
// written and deleted by hooks on that set and restored if the commit fails.
//
// Endpoints:
//   - GET /recipes
//   - GET /recipes/:id
//   - POST /recipes
//   - PUT /recipes/:id
//   - DELETE /recipes/:id
package recipes
