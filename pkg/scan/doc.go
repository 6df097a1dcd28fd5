// Package scan determines which registry components a build depends on.
//
// An export runs in stages:
//
//  1. [Walker] picks (project, configuration) pairs by pattern, resolves a
//     derived view of each configuration and collects every external module
//     coordinate in the resolution result.
//  2. [Filter] keeps coordinates in a registry-supported group that pass the
//     scope pattern, no exclusion and at least one inclusion.
//  3. [Resolver] maps the survivors to components in registry batches of
//     [BatchSize]. Artifacts without a component produce a warning.
//  4. [Merge] unites scanned components with explicitly declared ones into a
//     sorted, duplicate-free list.
//
// [Extractor] runs the stages for an export configuration. Any configuration
// or registry error aborts the whole extraction; warnings never do.
package scan
