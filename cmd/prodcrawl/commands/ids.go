package commands

import (
	"crypto/rand"
	"encoding/hex"
)

// newTaskID generates an opaque task identifier for crawls dispatched
// locally by the CLI, in the same "crawl-<hex>" shape internal/api
// generates for Control API requests.
func newTaskID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "crawl-0000000000000000"
	}
	return "crawl-" + hex.EncodeToString(b)
}
