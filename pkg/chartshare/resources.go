package chartshare

// ResolvedResources maps each of the nine fixed slots to the resource filling
// it. Slots with no resource are simply absent from the map.
type ResolvedResources map[ResourceKind]*FileResource

// Get returns the resource in the given slot, or nil when the slot is empty.
func (r ResolvedResources) Get(kind ResourceKind) *FileResource {
	return r[kind]
}

// Resolve maps a chart's resource collection onto the fixed slots.
//
// The store is expected to hold at most one resource per kind; if it ever
// holds more, the first one in collection order wins, so resolution stays
// deterministic for a given collection.
func Resolve(resources []*FileResource) ResolvedResources {
	resolved := make(ResolvedResources, len(resources))
	for _, resource := range resources {
		if _, taken := resolved[resource.Kind]; taken {
			continue
		}
		resolved[resource.Kind] = resource
	}
	return resolved
}
