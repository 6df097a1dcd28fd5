// Package pkg provides the core libraries of depexport.
//
// # Overview
//
// depexport produces the list of components a build depends on, for release
// management. Components come from two sources: components declared in the
// configuration, and components discovered by walking the resolved build graph
// and mapping each supported artifact through the components registry.
//
// # Architecture
//
// The data flow of one export:
//
//	Build graph snapshot ([io])  +  configuration ([config])
//	         ↓
//	    [scan] Walker (project/configuration pairs → candidates)
//	         ↓
//	    [scan] Filter (namespace → scope → exclude → include)
//	         ↓
//	    [scan] Resolver (batches of 50 → [registry])
//	         ↓
//	    [scan] Merge (declared ∪ discovered, deduplicated, sorted)
//	         ↓
//	    [sink] JSON report file / TeamCity service message
//
// [pipeline] runs these steps for the CLI and writes outputs only when the
// extraction succeeded.
//
// # Supporting packages
//
//   - [model]: coordinates, components, options and selectors
//   - [pattern]: full-match regular expressions
//   - [buildgraph]: the build graph interfaces and an in-memory implementation
//   - [errors]: coded errors
//   - [httputil]: retry with backoff
//   - [observability]: hooks and Prometheus textfile metrics
//   - [buildinfo]: version information
//
// [io]: https://pkg.go.dev/github.com/matzehuels/depexport/pkg/io
// [config]: https://pkg.go.dev/github.com/matzehuels/depexport/pkg/config
// [scan]: https://pkg.go.dev/github.com/matzehuels/depexport/pkg/scan
// [registry]: https://pkg.go.dev/github.com/matzehuels/depexport/pkg/registry
// [sink]: https://pkg.go.dev/github.com/matzehuels/depexport/pkg/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/depexport/pkg/pipeline
// [model]: https://pkg.go.dev/github.com/matzehuels/depexport/pkg/model
// [pattern]: https://pkg.go.dev/github.com/matzehuels/depexport/pkg/pattern
// [buildgraph]: https://pkg.go.dev/github.com/matzehuels/depexport/pkg/buildgraph
// [errors]: https://pkg.go.dev/github.com/matzehuels/depexport/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/depexport/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/depexport/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/depexport/pkg/buildinfo
package pkg
