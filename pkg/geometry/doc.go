// Package geometry synthesizes solid descriptions from element geometry
// descriptors.
//
// [Synthesize] is a pure function from a [model.Geometry] to a [Solid]:
// a list of primitive volumes (boxes, spheres, cylinders) with local
// transforms, or one [RuledSurface] joining two end loops. Solids are
// centroid-anchored. [Solid.Placement] re-applies the document's
// corner anchoring and any rotation, which is taken about the current
// corner.
//
// Document positions and internal positions differ in anchoring and in the
// sign of z; [ToInternal] and [ToExternal] convert between them.
//
// [Tessellate] turns a solid into a triangle mesh through the sdfx signed
// distance kernel.
package geometry
