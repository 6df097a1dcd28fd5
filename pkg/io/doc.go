// Package io reads build graph snapshots and writes dependency reports.
//
// # Snapshots
//
// A snapshot is a dump of a multi-project build: its projects, their
// configurations, the dependencies each configuration declares and the
// resolution result the build tool produced. JSON and TOML are accepted; the
// format is chosen by file extension ([DetectFormat]).
//
//	{
//	  "projects": [
//	    {
//	      "path": ":",
//	      "configurations": [
//	        {
//	          "name": "runtimeClasspath",
//	          "dependencies": [{"group": "org.octopusden", "name": "lib", "version": "1.0"}],
//	          "resolved": [
//	            {"group": "org.octopusden", "name": "lib", "version": "1.0",
//	             "dependencies": [{"project": ":util"}]}
//	          ]
//	        }
//	      ],
//	      "projects": [{"path": ":util"}]
//	    }
//	  ]
//	}
//
// Nested "projects" are flattened; every path must be unique. A resolved
// node is either an external module (group, name, version), a project
// dependency ("project") or an unresolved request ("unresolved": true).
//
// # Reports
//
// [WriteComponents] and [ExportComponents] write the exported component list
// as a pretty-printed JSON array of {"name", "version"} objects.
package io
