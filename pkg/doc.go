// Package pkg provides the core libraries for Siteplan site layout.
//
// # Overview
//
// Siteplan places type A and type B buildings on a rectangular site. A layout
// is audited against five rules (setback boundary, central plaza, collisions,
// minimum spacing and the A-needs-a-nearby-B mix rule), scored by a weighted
// energy, and improved by simulated annealing. The pkg directory is organized
// into three areas:
//
//  1. Model - [geom], [site] and [layout] describe the site and its buildings
//  2. Search - [audit], [energy], [mutate] and [anneal] judge and improve layouts
//  3. Delivery - [pipeline], [io], [render] and [observability] run requests,
//     exchange layouts and draw them
//
// # Architecture
//
// The typical data flow through Siteplan:
//
//	site.Config (defaults, TOML/YAML/JSON file)
//	         ↓
//	    [anneal] scheduler (mutate → audit → energy → accept)
//	         ↓
//	    [audit] report of the best layout
//	         ↓
//	    [render] SVG / text, [io] JSON, PNG / PDF
//
// # Quick Start
//
// Optimize a layout and render it:
//
//	import (
//	    "github.com/matzehuels/siteplan/pkg/anneal"
//	    "github.com/matzehuels/siteplan/pkg/render/svg"
//	    "github.com/matzehuels/siteplan/pkg/site"
//	)
//
//	cfg := site.Default()
//	res, err := anneal.Optimize(cfg, anneal.Options{Iterations: 3000, Seed: 42})
//	if err != nil {
//	    return err
//	}
//	figure := svg.Render(res.Layout, cfg)
//
// For batches of runs with cancellation, progress and every output format,
// use [pipeline.Runner].
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/siteplan/pkg/geom
// [site]: https://pkg.go.dev/github.com/matzehuels/siteplan/pkg/site
// [layout]: https://pkg.go.dev/github.com/matzehuels/siteplan/pkg/layout
// [audit]: https://pkg.go.dev/github.com/matzehuels/siteplan/pkg/audit
// [energy]: https://pkg.go.dev/github.com/matzehuels/siteplan/pkg/energy
// [mutate]: https://pkg.go.dev/github.com/matzehuels/siteplan/pkg/mutate
// [anneal]: https://pkg.go.dev/github.com/matzehuels/siteplan/pkg/anneal
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/siteplan/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/siteplan/pkg/pipeline#Runner
// [io]: https://pkg.go.dev/github.com/matzehuels/siteplan/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/siteplan/pkg/render
// [observability]: https://pkg.go.dev/github.com/matzehuels/siteplan/pkg/observability
package pkg
