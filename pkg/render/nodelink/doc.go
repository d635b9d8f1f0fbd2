// Package nodelink renders model topology as a node-link diagram.
//
// # Overview
//
// Every element becomes a node filled with its classification colour
// (see [classify.ColorFor]); ground elements are drawn as inverted
// trapezia and elements without usable geometry get dashed outlines. Every
// relationship becomes an undirected edge labelled with its type and
// nature. This view needs no geometry at all, so it also serves documents
// that parse with NoGeometricData.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Scheme: classify.SchemeMaterial})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Passing layout positions in [Options] pins nodes and switches Graphviz
// to the neato engine, so the diagram matches a computed layout.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
