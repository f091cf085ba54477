// Package pkg provides the core libraries for gitlanes commit graph layout.
//
// # Overview
//
// gitlanes draws a git commit history as a lane graph: every commit gets its
// own row, and a lane that persists while the branch it carries is alive.
// Branch and merge edges become rounded connectors between lanes. The pkg
// directory is organized into these areas:
//
//  1. [history] - Loading commit logs (JSON, git log text, repositories)
//  2. [lanes] - The layout pass: occupancy grid and lane allocation
//  3. [connector] - Connector geometry as SVG path data
//  4. [visual] - Interaction state and resolved stroke styles
//  5. [graph] - The serialized layout every renderer consumes
//  6. [render] - SVG, PDF, PNG and Graphviz output
//  7. [pipeline] - Orchestration (load → layout → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	JSON log / git log text / repository
//	         ↓
//	    [history] package (parents-first commit log)
//	         ↓
//	    [lanes] package (rows, lanes, edges)
//	         ↓
//	    [connector] package (path data per edge)
//	         ↓
//	    [graph] package (serialized layout + styles from [visual])
//	         ↓
//	    SVG/PDF/PNG/JSON/BSON/DOT output
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/gitlanes/pkg/history"
//	    "github.com/matzehuels/gitlanes/pkg/pipeline"
//	    "github.com/matzehuels/gitlanes/pkg/render/sink"
//	)
//
//	commits, _ := history.ReadFile("history.json")
//	l, _, _ := pipeline.GenerateLayout(context.Background(), commits, pipeline.Options{})
//	svg := sink.RenderSVG(l, sink.WithInteraction())
//
// # Infrastructure
//
// [cache] stores layouts and artifacts in files or Redis. [config] reads
// the TOML config file. [observability] exposes pipeline and cache hooks,
// with a Prometheus implementation in [observability/prom]. [errors]
// carries error codes and user-facing messages.
//
// [history]: github.com/matzehuels/gitlanes/pkg/history
// [lanes]: github.com/matzehuels/gitlanes/pkg/lanes
// [connector]: github.com/matzehuels/gitlanes/pkg/connector
// [visual]: github.com/matzehuels/gitlanes/pkg/visual
// [graph]: github.com/matzehuels/gitlanes/pkg/graph
// [render]: github.com/matzehuels/gitlanes/pkg/render
// [pipeline]: github.com/matzehuels/gitlanes/pkg/pipeline
// [cache]: github.com/matzehuels/gitlanes/pkg/cache
// [config]: github.com/matzehuels/gitlanes/pkg/config
// [observability]: github.com/matzehuels/gitlanes/pkg/observability
// [observability/prom]: github.com/matzehuels/gitlanes/pkg/observability/prom
// [errors]: github.com/matzehuels/gitlanes/pkg/errors
package pkg
