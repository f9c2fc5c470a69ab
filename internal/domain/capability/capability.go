// Where: internal/domain/capability/capability.go
// What: Root capability record construction.
// Why: The first API key must hold the capabilities that let operators manage every other key.
package capability

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/poruru-code/akm-cli/internal/domain/attr"
	"github.com/poruru-code/akm-cli/internal/domain/params"
)

const (
	RootDescription = "API key manager root capability set"

	FieldAPIKey        = "apiKey"
	FieldAuthorityKeys = "authorityKeys"
	FieldDescription   = "description"
	FieldExpiry        = "expiryTimestamp"
	FieldCapabilities  = "capabilitySet"

	lockProperty = "capabilityLock"
)

// NeverExpires is the expiry written for keys that do not expire.
var NeverExpires = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

var (
	ErrInvalidKeySize  = errors.New("key size must be positive")
	errNotPropertyBag  = errors.New("capability properties must be a mapping")
	errEmptyCapability = errors.New("capability name must not be empty")
)

// Set maps capability names to their property bags.
type Set map[string]attr.Map

// ParseSet builds a Set from a decoded seed document.
func ParseSet(value attr.Value) (Set, error) {
	root, ok := value.(attr.Map)
	if !ok {
		return nil, fmt.Errorf("capability set: %w", errNotPropertyBag)
	}
	out := make(Set, len(root))
	for name, props := range root {
		if name == "" {
			return nil, errEmptyCapability
		}
		bag, ok := props.(attr.Map)
		if !ok {
			return nil, fmt.Errorf("capability %q: %w", name, errNotPropertyBag)
		}
		out[name] = bag
	}
	return out, nil
}

// Names returns the capability names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithRequired returns a copy of seed that always carries the create, read and delete
// capabilities. Entries already present in seed are kept unchanged.
func WithRequired(seed Set, names params.Capabilities) Set {
	out := make(Set, len(seed)+3)
	for name, props := range seed {
		out[name] = props
	}
	if _, ok := out[names.Create]; !ok {
		out[names.Create] = attr.Map{lockProperty: attr.Bool(false)}
	}
	if _, ok := out[names.Read]; !ok {
		out[names.Read] = attr.Map{}
	}
	if _, ok := out[names.Delete]; !ok {
		out[names.Delete] = attr.Map{}
	}
	return out
}

// GenerateKey reads size random bytes and returns them URL-safe base64 encoded.
func GenerateKey(random io.Reader, size int) (string, error) {
	if size <= 0 {
		return "", ErrInvalidKeySize
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(random, buf); err != nil {
		return "", fmt.Errorf("read random key bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

// Record is the stored form of an API key and its capabilities.
type Record struct {
	APIKey        string
	AuthorityKeys []string
	Description   string
	Expiry        time.Time
	Capabilities  Set
}

// NewRootRecord creates the root key record with a fresh key.
func NewRootRecord(random io.Reader, settings params.Settings, seed Set) (Record, error) {
	key, err := GenerateKey(random, settings.KeySize)
	if err != nil {
		return Record{}, err
	}
	return Record{
		APIKey:        key,
		AuthorityKeys: []string{},
		Description:   RootDescription,
		Expiry:        NeverExpires,
		Capabilities:  WithRequired(seed, settings.Capabilities),
	}, nil
}

// Fields returns the record as codec values.
func (r Record) Fields() map[string]attr.Value {
	authority := make(attr.List, 0, len(r.AuthorityKeys))
	for _, key := range r.AuthorityKeys {
		authority = append(authority, attr.String(key))
	}
	caps := make(attr.Map, len(r.Capabilities))
	for name, props := range r.Capabilities {
		caps[name] = props
	}
	return map[string]attr.Value{
		FieldAPIKey:        attr.String(r.APIKey),
		FieldAuthorityKeys: authority,
		FieldDescription:   attr.String(r.Description),
		FieldExpiry:        attr.Int(r.Expiry.UnixMilli()),
		FieldCapabilities:  caps,
	}
}

// Item encodes the record for a put-item call.
func (r Record) Item() (map[string]attr.Attribute, error) {
	return attr.EncodeRecord(r.Fields())
}

// Key is the primary key of the record.
func (r Record) Key() map[string]attr.Attribute {
	return map[string]attr.Attribute{FieldAPIKey: {Tag: attr.TagS, S: r.APIKey}}
}
