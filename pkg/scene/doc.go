// Package scene defines the Scene, the data structure produced by evaluating
// a scene script: named panels and sources, sun vector sets, tolerance
// overrides and the analyses to run over them.
package scene
