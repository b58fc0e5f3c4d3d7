// Package tensegrity provides the topology and force model of tensegrity
// structures.
//
// A structure is a set of point masses connected by one-sided elastic
// elements:
//
//   - [Node]: point mass with position, velocity and acceleration
//   - [Element]: cable (tension only) or strut (compression only)
//   - [System]: owns nodes and elements and aggregates their forces
//
// Elements reference their endpoints by index into the system's node arena,
// so a node moved through the system is seen by every element attached to it.
//
// # Example
//
//	sys := tensegrity.New(tensegrity.WithGravity(tensegrity.Vector{0, 0, -9.81}))
//	a, _ := sys.AddNode(tensegrity.Vector{0, 0, 1}, tensegrity.Fixed())
//	b, _ := sys.AddNode(tensegrity.Vector{0, 0, 0})
//	sys.AddCable(a, b, tensegrity.WithStiffness(100), tensegrity.WithRestLength(0.8))
//	forces := sys.Forces()
//
// # Thread Safety
//
// A System is NOT safe for concurrent use. Use [System.Clone] to give each
// goroutine its own copy.
package tensegrity
