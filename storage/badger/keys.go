package badger

import (
	"fmt"
	"strings"

	"github.com/poiesic/tagit/core"
)

// Key prefixes for different data types
const (
	sessionRecordPrefix = "sesrec"
	sessionNamePrefix   = "sesnam"
	checkpointPrefix    = "chkpt"
)

// makeSessionKey generates a key for a session by ID.
func makeSessionKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", sessionRecordPrefix, id))
}

// makeSessionNameKey generates the key of the name index.
// Names are compared ignoring case and surrounding whitespace.
// Format: prefix:name
func makeSessionNameKey(name string) []byte {
	return []byte(sessionNamePrefix + ":" + strings.ToLower(strings.TrimSpace(name)))
}

// makeCheckpointKey generates a key for batch checkpoints.
func makeCheckpointKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", checkpointPrefix, name))
}
