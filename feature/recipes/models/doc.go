// Package models defines the recipe aggregate, its children and the lookup
// tables. Child models implement reconcile.Entity with explicit field
// equality.
package models
