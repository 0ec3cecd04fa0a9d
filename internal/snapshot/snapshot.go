// Package snapshot captures a point-in-time view of a rendered page that the
// detection probes can introspect without reaching back to the network. Two
// backends exist: a static backend that parses fetched HTML, and a live
// backend that drives a headless browser and can observe runtime globals and
// storage.
package snapshot

import "context"

// Snapshot is a read-only view over a captured page. All methods are safe to
// call concurrently once the snapshot has been taken.
type Snapshot interface {
	// HasGlobal reports whether the named top-level runtime global was present
	// when the snapshot was taken. Static snapshots always report false.
	HasGlobal(name string) bool

	// Query reports whether at least one element matches the CSS selector.
	Query(selector string) bool

	// ScriptSources returns the src attribute of every external script tag,
	// in document order.
	ScriptSources() []string

	// LinkHrefs returns the href attribute of every link tag, in document
	// order.
	LinkHrefs() []string

	// InlineScripts returns the text content of every inline script tag.
	InlineScripts() []string

	// MetaContent returns the content attribute of the first meta tag whose
	// name attribute matches (case-insensitive), or "" if absent.
	MetaContent(name string) string

	// BodyText returns the visible text of the document body.
	BodyText() string

	// HTML returns the raw document markup the snapshot was built from.
	HTML() string

	// StorageEntries returns the localStorage keys observed at capture time.
	// Static snapshots return nil.
	StorageEntries() []string

	// SessionEntries returns the sessionStorage keys observed at capture
	// time. Static snapshots return nil.
	SessionEntries() []string

	// Location returns the URL the document was loaded from, after any
	// redirects the backend followed.
	Location() string

	// Close releases backend resources. Snapshots must not be used after
	// Close returns.
	Close() error
}

// Capturer takes snapshots of pages.
type Capturer interface {
	// Capture loads the target URL and returns a snapshot of the resulting
	// document.
	Capture(ctx context.Context, url string) (Snapshot, error)

	// Close releases the capturer's resources.
	Close() error
}
