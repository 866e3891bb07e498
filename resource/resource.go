// Package resource implements resource-location and block-state
// identifiers: the "namespace:path" and "namespace:path[k=v,...]"
// strings used throughout the protocol to name blocks, items, fonts
// and other registered resources.
package resource

import (
	"errors"
	"strings"
)

// ErrInvalidLocation is returned when a string cannot be split into a
// non-empty namespace and a non-empty path on the first ':'.
var ErrInvalidLocation = errors.New("resource: invalid resource location")

// Location is an immutable namespace:path identifier.
type Location struct {
	Namespace string
	Path      string
}

// Parse splits s on the first ':'. Both sides must be non-empty.
func Parse(s string) (Location, error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return Location{}, ErrInvalidLocation
	}
	namespace, path := s[:idx], s[idx+1:]
	if namespace == "" || path == "" {
		return Location{}, ErrInvalidLocation
	}
	return Location{Namespace: namespace, Path: path}, nil
}

// String renders the location as "namespace:path".
func (l Location) String() string {
	return l.Namespace + ":" + l.Path
}

// property is one key=value pair of a block state, kept in insertion
// order since map iteration order is not a faithful wire encoding.
type property struct {
	key, value string
}

// BlockState is a resource location plus an ordered mapping of
// property key to property value.
type BlockState struct {
	Location Location
	props    []property
}

// ErrUnterminatedBlockState is returned when a "[" is opened without a
// matching "]".
var ErrUnterminatedBlockState = errors.New("resource: unterminated block state")

// ParseBlockState parses "namespace:path" or
// "namespace:path[k1=v1,k2=v2,...]". Property order is preserved.
func ParseBlockState(s string) (BlockState, error) {
	bracket := strings.IndexByte(s, '[')
	if bracket < 0 {
		loc, err := Parse(s)
		if err != nil {
			return BlockState{}, err
		}
		return BlockState{Location: loc}, nil
	}

	loc, err := Parse(s[:bracket])
	if err != nil {
		return BlockState{}, err
	}
	if !strings.HasSuffix(s, "]") {
		return BlockState{}, ErrUnterminatedBlockState
	}

	state := BlockState{Location: loc}
	body := s[bracket+1 : len(s)-1]
	if body == "" {
		return state, nil
	}

	for _, pair := range strings.Split(body, ",") {
		eq := strings.IndexByte(pair, '=')
		if eq < 0 {
			return BlockState{}, errors.New("resource: malformed block state property " + pair)
		}
		state.props = append(state.props, property{key: pair[:eq], value: pair[eq+1:]})
	}
	return state, nil
}

// Set assigns a property value, appending it if the key is new and
// overwriting in place if it already exists.
func (b *BlockState) Set(key, value string) {
	for i := range b.props {
		if b.props[i].key == key {
			b.props[i].value = value
			return
		}
	}
	b.props = append(b.props, property{key: key, value: value})
}

// Get returns a property value and whether it was present.
func (b BlockState) Get(key string) (string, bool) {
	for _, p := range b.props {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// Properties returns the property keys in insertion order.
func (b BlockState) Properties() []string {
	keys := make([]string, len(b.props))
	for i, p := range b.props {
		keys[i] = p.key
	}
	return keys
}

// String renders the block state as "loc" when it has no properties,
// else "loc[k1=v1,k2=v2,...]" in insertion order.
func (b BlockState) String() string {
	if len(b.props) == 0 {
		return b.Location.String()
	}
	var sb strings.Builder
	sb.WriteString(b.Location.String())
	sb.WriteByte('[')
	for i, p := range b.props {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.key)
		sb.WriteByte('=')
		sb.WriteString(p.value)
	}
	sb.WriteByte(']')
	return sb.String()
}
