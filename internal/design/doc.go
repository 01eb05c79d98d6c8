// Package design loads design descriptions: the scope tree, the
// declarations that live in it and the named expressions to elaborate.
//
// A description is TOML (*.toml) or YAML (*.yaml, *.yml):
//
//	[options]
//	integer_width = 32
//
//	[[scope]]
//	name = "top"
//	  [[scope.signal]]
//	  name = "w"
//	  range = [7, 0]
//	  [[scope.param]]
//	  name = "P"
//	  value = "8'ha5"
//
//	[[expr]]
//	name = "sum"
//	scope = "top"
//	text = "w + P"
//
// Parameter values are Verilog literals; a quoted value ("\"AB\"") is a
// string parameter and a literal with a fraction or exponent is real.
package design
