// Package query converts a collection of tags into listing-search parameters.
//
// Only active tags contribute. Budget tags phrased as a ceiling ("Under 750k€",
// "Max 800k") set PriceMax, ranges set both bounds, and any other amount sets
// PriceMin with PriceMax defaulting to 20% above it.
package query
