// Package feed keeps the bounded in-memory log of recent alert transitions
// shown in the dashboard's live feed panel.
package feed
