// Package tac translates small C-like snippets into three-address code. The
// pipeline has three independent stages that share one immutable token slice:
//   - Tokenize turns source text into typed tokens and a declaration-order
//     symbol table.
//   - Validate checks brace/paren balance, control-structure headers and
//     declare-before-use, returning a verdict plus diagnostics.
//   - Generate lowers assignments and if/else, while, for and switch into
//     linear TAC with synthetic labels (L1, L2, ...) and temporaries (t1, ...).
//
// Supported statements are assignments, declarations of int, float, double,
// char and boolean, and the four control constructs. Generation does not
// require validation to pass; malformed statements degrade to inline
// "Error: ..." lines instead of failing the whole pass.
package tac
