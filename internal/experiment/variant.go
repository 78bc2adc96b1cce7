// Package experiment assigns scheduling variants to sessions and watches the
// health of the assigned variant through vibration and divergence guards.
package experiment

import "hash/fnv"

// Built-in scheduling variants.
const (
	VariantBaseline   = "baseline"
	VariantAdaptive   = "adaptive"
	VariantAggressive = "adaptive_aggressive"
)

// DefaultVariants is used when no variant list is configured.
var DefaultVariants = []string{VariantBaseline, VariantAdaptive, VariantAggressive}

// Assigner maps session ids onto variants.
type Assigner struct {
	variants []string
}

func NewAssigner(variants []string) *Assigner {
	if len(variants) == 0 {
		variants = DefaultVariants
	}
	return &Assigner{variants: append([]string(nil), variants...)}
}

// Variants returns the configured variants in assignment order.
func (a *Assigner) Variants() []string {
	return append([]string(nil), a.variants...)
}

// Assign returns the variant of sessionID. The same id always yields the same variant.
func (a *Assigner) Assign(sessionID string) string {
	return a.variants[bucket(sessionID, len(a.variants))]
}

// AssignVariant assigns sessionID over DefaultVariants.
func AssignVariant(sessionID string) string {
	return DefaultVariants[bucket(sessionID, len(DefaultVariants))]
}

func bucket(sessionID string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(n))
}
