// Package pkg holds the libraries behind ievis.
//
// ievis reads structural models made of irreducible elements (beams,
// columns, slabs, cables) and the relationships between them, fills in
// coordinates for elements that arrive without a placement, and exports
// placed 3D scenes, meshes and topology diagrams.
//
// # Layout of the tree
//
//   - [model]: elements, relationships, the connectivity graph and its rules
//   - [classify]: element type and material inference from names and shapes
//   - [document]: the JSON model document (parse, drops, serialization)
//   - [geometry]: solids, placements, synthesis and meshing
//   - [layout]: seeded force layout, rescaling and validation
//   - [scene]: the renderer-facing scene graph and colour schemes
//   - [render/nodelink]: Graphviz topology diagrams
//   - [session]: editing sessions with generation-checked commands
//   - [store]: the model library (SQLite, MongoDB) with a read cache
//   - [cache]: file, Redis and null caches with hashed keys
//   - [pipeline]: parse, layout and export orchestration
//   - [observability]: hooks around parse, layout and export stages
//
// # Data flow
//
//	model document (JSON)
//	         ↓
//	    [document] parse, drop invalid records
//	         ↓
//	    [model] graph + [classify]
//	         ↓
//	    [layout] coordinates for unplaced elements
//	         ↓
//	    [scene] / [geometry] mesh / [render/nodelink] diagram
//
// # Quick start
//
//	doc, err := document.ReadFile("bridge.json")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Document: doc,
//	    Formats:  []string{pipeline.FormatScene},
//	})
//
// The cmd/ievis binary wraps these packages in a CLI and an HTTP API.
package pkg
