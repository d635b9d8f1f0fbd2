// Package document converts between the hierarchical structure document and
// the model graph.
//
// # Reading
//
// [Read] and [ReadFile] decode a [Document]; [Parse] turns it into a
// [model.Graph] plus the list of elements that carry enough geometric data
// to be shaped:
//
//	doc, err := document.ReadFile("bridge.json")
//	res, err := document.Parse(doc)
//	if res.NoGeometricData {
//	    // topology-only view
//	}
//
// Parse never fails on missing optional fields. It fails with
// INVALID_DOCUMENT only on structural problems such as duplicate names.
//
// # Writing
//
// [ToDocument] produces a document from a graph, recomputing join
// coordinates from the participants' placed solids. Documents written this
// way parse back to the same names, dimensions and relationships.
//
// # Conventions
//
// Element positions in documents name the minimum corner of the element's
// bounding box. Nested taxonomies are written as {name, type: {...}} chains
// and mapped to [model.Taxonomy] and [model.Geometry] without any string
// splitting.
package document
