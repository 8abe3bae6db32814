// Package geom defines the geometric value types shared by the solar
// analysis engine: planes, polylines, triangle meshes and affine transforms.
// All types are plain values; nothing here talks to a geometry kernel.
package geom
