// Package internal contains the implementation packages for the Sprout
// documentation site.
//
// # Package Organization
//
//   - router: URL resolution, the route table and history-backed navigation
//   - app: the page model, its update function and the program driving it
//   - content: guide manifest, changelog and markdown rendering
//   - search: full-text index over the loaded content
//   - view: templ components for every page
//   - server: HTTP handlers and the WebSocket navigation sessions
//   - build: static export of every route
//   - watcher: file system monitoring with debouncing for hot reload
//   - config, logging, errors, version: shared plumbing
//
// # Navigation
//
// A click produces a routing intent. The router turns it into exactly one
// history push (or a replace when the browser is already there) and a
// change message the model applies. Back and forward only ever resolve the
// new location into a change message, so they never push.
package internal
