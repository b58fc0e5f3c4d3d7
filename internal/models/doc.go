// Package models builds ready-to-simulate tensegrity structures.
//
// Every builder implements [Structure]:
//
//   - [Prism]: the classic three-strut prism with a fixed base ("prism",
//     and the light, heavily damped "prism_soft")
//   - [Spring]: a single pre-tensioned cable on a fixed anchor
//   - [Pendulum]: a mass hanging from a stiff strut
//   - [Kite]: a planar cross of two struts inside a cable ring
//   - [Definition]: an arbitrary structure read from a config file
//
// Parameters are exposed by name through GetParams and SetParam so that
// sweeps and the CLI can tune them without knowing the concrete type.
package models
