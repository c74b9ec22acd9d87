// Package render turns a parsed notebook into its output forms.
//
// # Overview
//
// Every renderer reads the dependency-ordered view of a
// [notebook.Notebook], so output is stable for a given export:
//
//   - [Module]: a standalone JavaScript module with one import line per
//     foreign notebook and one annotated export per defined cell
//   - [Markdown]: prose cells as text, code cells as fenced blocks
//   - [JSON]: a mapping of cell name to cell attributes
//   - [Manifest]: the JSON attributes without sources and bodies
//
// The cell dependency graph is rendered by the [nodelink] subpackage.
//
// # Module Form
//
// Imports come from [notebook.Notebook.Dependencies], grouped by source
// notebook in first-seen order. A name imported from an earlier source, or
// also defined locally, is not imported again. Sources that look like a
// private notebook id are imported from "./<id>.js", public ones from
// "../@user/name.js":
//
//	import {stylesheet, html} from '../@sebastien/boilerplate.js'
//	// @cell('Docs', ['html'])
//	export const Docs = html.div("docs")
//	// EOF
//
// Template cells (md, html) and Observable view state (viewof_, initial_,
// mutable_) are never exported.
//
// # Formats
//
// [Format] names an output form. [ParseFormat] accepts the names used on the
// command line and [FormatFromPath] infers one from a file extension.
//
// [nodelink]: github.com/matzehuels/obsexport/pkg/render/nodelink
package render
