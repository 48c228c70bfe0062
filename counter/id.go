package counter

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const idLen = sha256.Size * 2

// ID is the opaque identifier of an entity
type ID string

// NewID derive the entity id of name in namespace
func NewID(namespace, name string) ID {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	return ID(hex.EncodeToString(sum[:]))
}

// ParseID parse the string form of an ID
func ParseID(s string) (ID, error) {
	id := ID(s)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate check id is 64 lowercase hex chars
func (id ID) Validate() error {
	if len(id) != idLen {
		return fmt.Errorf("%w: length %d", ErrInvalidID, len(id))
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') {
			return fmt.Errorf("%w: char %q at %d", ErrInvalidID, ch, i)
		}
	}
	return nil
}

func (id ID) String() string {
	return string(id)
}
