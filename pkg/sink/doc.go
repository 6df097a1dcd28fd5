// Package sink writes an exported component list to its destinations.
//
// Two sinks exist:
//
//   - [JSONFile]: a pretty-printed JSON array of {"name", "version"} objects,
//     written atomically, parent directories created.
//   - [TeamCity]: a ##teamcity[setParameter ...] service message on stdout
//     whose value is the comma separated id:version list. Nothing is printed
//     for an empty list.
//
// Sinks run only after a successful extraction, so a failed export never
// produces output.
package sink
