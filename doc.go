// Package calc implements the engine of a calculator with an angle mode.
//
// Expressions use + - * / and ^ with the usual precedence, parentheses, and
// the names in a binding table: sin, cos, tan, asin, acos, atan, sqrt, exp,
// log, ln, pi, and e. Functions are always called with parentheses, as in
// "sin(30)", and there is no implicit multiplication. "-2^2" is the same as
// "-(2^2)", and "2^3^2" is "2^(3^2)".
//
// The binding table is built for an angle mode. In Degrees, sin(90) is 1 and
// asin(1) is 90; in Radians, they are the plain mathematical functions. Names
// outside the table are rejected while parsing, so evaluation can only reach
// what the table binds.
//
// A Session ties the pieces together the way a calculator display does:
// characters are appended, Submit evaluates, and the display shows either the
// result or "Error".
//
package calc
