// Package discovery implements mDNS/DNS-SD announcement for HomeWeb
// root devices.
//
// An attached root advertises one _homeweb._tcp instance so that
// controllers on the local network can find its presentation tree
// without knowing its address. TXT records carry:
//
//	id   device identifier (36-character hyphenated hex)
//	urn  type identity string (urn:<domain>:<device|service>:<type>:<version>)
//	loc  absolute URL of the root page
//	dn   display name (optional)
//
// Announcement is additive to the node tree: the tree works without it,
// and the announcer only reads root state (identifier, type, location).
package discovery
