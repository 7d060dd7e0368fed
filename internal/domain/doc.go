// Package domain defines the Streetcode content model: streetcodes and the
// facts, media, timeline, locations, sources and partners attached to them,
// plus admin users. Entities validate themselves; persistence lives elsewhere.
package domain
