// Package graph provides the serialization format for laid-out commit graphs.
//
// This package defines the canonical wire format for gitlanes layouts, used
// for JSON and BSON output, caching, and as the single input of every render
// sink.
//
// # Architecture
//
// The package sits at the serialization boundary:
//
//   - pkg/lanes.Result: internal layout (nodes, edges, occupancy grid)
//   - pkg/connector.Path: connector geometry
//   - pkg/visual.Controller: interaction state
//   - [Layout]: the serialized combination of all three (this package)
//
// Use [FromResult] to export a pass, then [Register], [Select] and
// [ApplyStyles] to resolve element styles through a controller.
//
// # Core Types
//
//   - [Layout]: one layout pass, discriminated by VizType ("lanes" or
//     "nodelink")
//   - [Node]: positioned commit with its lane color
//   - [Edge]: parent → child connector with SVG path data
//   - [Style]: resolved stroke of an element
//
// # Layout Serialization
//
//	{
//	  "viz_type": "lanes",
//	  "width": 140, "height": 80, "lanes": 2,
//	  "nodes": [{"id": "A", "row": 0, "lane": 0, "x": 10, "y": 10, "kind": "regular"}],
//	  "edges": [{"id": "B_A", "from": "A", "to": "B", "direction": "branch-out", "d": "M 17.5 20 L 47.5 20"}]
//	}
//
// Common operations:
//
//	layout, _ := graph.ReadLayoutFile("layout.json")
//	data, _ := graph.MarshalLayout(layout)
//	doc, _ := graph.MarshalLayoutBSON(layout)
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
