// Package storageid translates between the consumer's opaque ID space and
// the bridge's local integer keys. A provider-qualified ID has the form
// "f:<provider>:<external>"; anything else is treated as a raw consumer ID.
package storageid

import (
	"strconv"
	"strings"
)

// Prefix marks a provider-qualified storage ID.
const Prefix = "f:"

// Codec qualifies and unqualifies IDs for one federation provider instance.
type Codec struct {
	ProviderID string
}

// Parse splits a qualified storage ID into its provider and external parts.
// ok is false when the ID is not in qualified form at all.
func Parse(id string) (provider, external string, ok bool) {
	if !strings.HasPrefix(id, Prefix) {
		return "", "", false
	}
	rest := id[len(Prefix):]
	i := strings.Index(rest, ":")
	if i < 0 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

// ExternalID extracts the local-key portion of a qualified consumer ID.
// It returns "" when the ID is unqualified or belongs to another provider,
// signalling the caller to fall back to a stored-consumer-ID lookup.
func (c Codec) ExternalID(consumerID string) string {
	provider, external, ok := Parse(consumerID)
	if !ok || provider != c.ProviderID {
		return ""
	}
	return external
}

// QualifiedID builds the provider-qualified consumer ID for a local key.
func (c Codec) QualifiedID(localKey uint) string {
	return Prefix + c.ProviderID + ":" + strconv.FormatUint(uint64(localKey), 10)
}
