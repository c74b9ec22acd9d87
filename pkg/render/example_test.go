package render_test

import (
	"fmt"

	"github.com/matzehuels/obsexport/pkg/notebook"
	"github.com/matzehuels/obsexport/pkg/render"
)

func ExampleModule() {
	nb := notebook.New("@me/demo")
	total := nb.AddCell(notebook.CellSpec{Name: "total"})
	total.SetInputs([]string{"values"})
	total.AddLine("values.reduce((a, b) => a + b)\n")
	nb.AddCell(notebook.CellSpec{Name: "values", Source: "@me/data", SourceName: "numbers"})

	out, _ := render.Module(nb, render.Options{})
	fmt.Print(string(out))
	// Output:
	// import {numbers as values} from '../@me/data.js'
	// // @cell('total', ['values'])
	// export const total = values.reduce((a, b) => a + b)
	// // EOF
}
