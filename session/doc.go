// Package session keeps the tags a user accumulates while chatting.
//
// Each message is run through the detector and merged into a Collection;
// tags already present by label are skipped, so repeating a criterion never
// duplicates it. Users can then toggle, edit or remove individual tags
// before the active set is turned into search parameters.
package session
