// Package hcl_adapter provides the concrete HCL implementation of the
// config.Loader interface. It is responsible for file discovery, parsing,
// gohcl decoding and the translation of HCL recipe blocks into the
// format-agnostic config.Recipe, including static checks of every `when`
// and `build_context` expression.
package hcl_adapter
