package domain

import "strings"

// Layer is one of the five ordered architectural tiers. Lower numeric
// values sit closer to requirements; the requirements layer itself is
// exempt from layer-violation checking.
type Layer string

const (
	LayerRequirements Layer = "requirements"
	LayerDomain       Layer = "domain"
	LayerBehavior     Layer = "behavior"
	LayerExperience   Layer = "experience"
	LayerVerification Layer = "verification"
)

// layerOrder fixes the total order: requirements (0) < domain (1) <
// behavior (2) < experience (3) < verification (4).
var layerOrder = map[Layer]int{
	LayerRequirements: 0,
	LayerDomain:       1,
	LayerBehavior:     2,
	LayerExperience:   3,
	LayerVerification: 4,
}

// Numeric returns a layer's position in the total order, and false if the
// layer is not one of the five known values.
func Numeric(l Layer) (int, bool) {
	n, ok := layerOrder[l]
	return n, ok
}

// pathLayerPrefixes maps a specs-root-relative numeric path segment to its
// layer, in the order they must be matched (longest/most-specific first is
// unnecessary here since segments are mutually exclusive digit prefixes).
var pathLayerPrefixes = []struct {
	prefix string
	layer  Layer
}{
	{"00-requirements", LayerRequirements},
	{"01-domain", LayerDomain},
	{"02-behavior", LayerBehavior},
	{"03-experience", LayerExperience},
	{"04-verification", LayerVerification},
}

// DetectLayer returns the first layer whose numeric path segment appears in
// path, or (LayerDomain, false) if none match — domain is the documented
// default when layer cannot be determined from the path.
func DetectLayer(path string) (Layer, bool) {
	normalized := strings.ReplaceAll(path, "\\", "/")
	for _, candidate := range pathLayerPrefixes {
		if strings.Contains(normalized, candidate.prefix) {
			return candidate.layer, true
		}
	}
	return LayerDomain, false
}

// IsLayerViolation implements the fixed layer-violation predicate:
// origin != requirements AND numeric(origin) < numeric(destination).
// An undefined destination layer yields false.
func IsLayerViolation(origin, destination Layer) bool {
	if origin == LayerRequirements {
		return false
	}
	originN, ok := Numeric(origin)
	if !ok {
		return false
	}
	destN, ok := Numeric(destination)
	if !ok {
		return false
	}
	return originN < destN
}
