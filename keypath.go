package transcat

import (
	"fmt"
	"strings"
)

// KeyPath is an ordered sequence of segment names locating one message inside
// a catalog, e.g. {"user", "profile", "greeting"}.
type KeyPath []string

// ParseKeyPath splits a dotted key ("user.profile.greeting") into a KeyPath.
// The key must be non-empty and every segment must be a non-empty string
// without the separator character.
func ParseKeyPath(key string) (KeyPath, error) {
	if key == "" {
		return nil, fmt.Errorf("key path is empty")
	}
	segments := strings.Split(key, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("key path %q has an empty segment", key)
		}
	}
	return KeyPath(segments), nil
}

func (p KeyPath) String() string {
	return strings.Join(p, ".")
}

// Child returns a new path with one more segment appended. The receiver is
// not shared with the result.
func (p KeyPath) Child(segment string) KeyPath {
	child := make(KeyPath, 0, len(p)+1)
	child = append(child, p...)
	return append(child, segment)
}
