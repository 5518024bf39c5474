// Package candidate holds the two value objects the server is assembled from:
// the Profile of the person being represented and the Settings of the server
// itself.
//
// Each optional profile Field has a single canonical slug. Both the data tool
// name and the readable resource URI for a field are derived from that slug,
// which is what lets the composition engine check that tools and resources are
// always bound in pairs.
package candidate
