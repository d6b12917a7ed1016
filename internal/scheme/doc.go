// Package scheme edits the URL-scheme registrations of an application's
// property-list configuration document.
//
// It exposes pure operations over the CFBundleURLTypes list (append, remove,
// lookup, listing, and wholesale replacement), property-list document
// loading and saving, and the Cobra command surface used by the expo-cli
// binary to drive those operations.
package scheme
