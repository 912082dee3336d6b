// Package document owns the workspace files: versioned handles over
// their content and a store that loads and saves them with
// compare-and-swap on the content hash, so a concurrent writer becomes
// an explicit conflict instead of a silent overwrite.
package document

import (
	"crypto/sha256"
	"encoding/hex"
)

// Handle is an immutable view of one document at load time. Every edit
// and save carries the handle it was derived from; Save refuses to
// overwrite content whose hash no longer matches.
type Handle struct {
	Path    string `json:"path"`
	Text    string `json:"text"`
	Hash    string `json:"hash"`
	Version int64  `json:"version"`
}

// HashText returns the hex sha256 of document content, the identity
// every cache key and conflict check is built on.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
