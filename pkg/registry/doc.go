// Package registry is the client side of the components registry, the
// service that maps build artifacts (group:name:version) to the release
// components that produced them.
//
// Two operations are used by an export:
//
//   - [Lookup.SupportedGroups]: the group prefixes the registry knows about.
//     Coordinates outside these prefixes are never sent to the registry.
//   - [Lookup.FindComponents]: maps a batch of coordinates to components.
//     Artifacts the registry cannot attribute come back with a nil component.
//
// [Client] implements [Lookup] over the registry's REST API:
//
//	c, err := registry.NewClient("http://registry:4567", registry.Options{Logger: logger})
//	defer c.Close()
//	groups, err := c.SupportedGroups(ctx)
//	found, err := c.FindComponents(ctx, coords)
//
// All failures are returned as REGISTRY_ERROR errors naming the registry URL.
// Supported groups are remembered for the lifetime of a Client only; create
// one Client per export run.
package registry
