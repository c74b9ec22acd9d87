// Package extract reconstructs notebooks from the JavaScript source that
// ObservableHQ emits when a notebook is exported.
//
// # Overview
//
// The export is generated from a fixed template: one "const mN = {...}"
// block per module, each listing its variables as object literals whose
// fields sit at known indentations:
//
//	const m0 = {
//	  id: "28e219d819b6b627@2228",
//	  variables: [
//	    {
//	      name: "total",
//	      inputs: ["values"],
//	      value: (function(values){return(
//	values.reduce((a, b) => a + b)
//	)})
//	    },
//	    {
//	      from: "@jashkenas/inputs",
//	      name: "slider",
//	      remote: "slider"
//	    }
//	  ]
//	};
//
// The [Extractor] scans that text line by line, once, without looking back.
// Each line is classified by the first matching rule of a fixed priority
// table (notebook marker, name, from, remote, inputs, value, end of cell,
// body capture, header comment, scaffolding). Bodies are kept verbatim.
//
// # Ambiguities
//
// Some cells have no name line; a second inputs line for a cell that already
// has inputs starts a new anonymous cell. Cells whose value is a function
// wrapper "(function(...){return(" end at a line starting with ")})", other
// cells end at "    },". The wrapper flag is tracked per cell so that a
// "    }," inside a function body does not end the cell.
//
// # Errors
//
// A line that matches no rule while no cell is open is a format violation:
// the template has changed and continuing would risk merging or splitting
// cells silently. [Parse] then returns an [errors.FormatError] and no
// notebook.
//
// # Modules
//
// Exports of notebooks that import other notebooks contain one module per
// notebook and end with an aggregate section repeating the main module's
// id. Every module gets its own [notebook.Notebook] in [Result.Notebooks];
// [Result.Notebook] is the one named by the last id marker, which is the
// main notebook.
//
// [errors.FormatError]: github.com/matzehuels/obsexport/pkg/errors.FormatError
package extract
