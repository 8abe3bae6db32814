// Package solar is the region relationship and oblique projection engine
// behind every analysis: it projects geometry onto a panel plane along a sun
// direction, classifies the projected outline against the panel outline, and
// derives difference and intersection regions with their areas.
//
// All functions take tolerances explicitly. Nothing in the package keeps
// state between calls apart from the warning logger.
package solar
