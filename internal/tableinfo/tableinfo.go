// Package tableinfo inspects an existing store file and reports its column
// layout. It is purely diagnostic: it never writes.
package tableinfo

import (
	"fmt"
	"io"

	"github.com/visbench/visbench/internal/store"
)

// Info describes a store file's layout.
type Info struct {
	Path     string
	RowCount int
	Columns  []store.ColumnSpec
}

// Inspect opens the store at path read-only and reads its schema metadata.
func Inspect(path string) (*Info, error) {
	tab, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer tab.Close()

	cols, err := tab.Columns()
	if err != nil {
		return nil, err
	}
	return &Info{
		Path:     path,
		RowCount: tab.RowCount(),
		Columns:  cols,
	}, nil
}

// Render prints the layout as an aligned flag table:
// F fixed shape, S scalar, A array, T table-valued, D direct, U undefined
// cells allowed.
func (i *Info) Render(w io.Writer) {
	fmt.Fprintf(w, "Number of rows: %d\n", i.RowCount)
	fmt.Fprintf(w, "Number of columns: %d\n", len(i.Columns))
	fmt.Fprintln(w, "F:fixed shape, S:scalar, A:array, T:table, D:direct, U:undefined allowed")

	nameWidth := len("Name")
	for _, c := range i.Columns {
		if len(c.Name) > nameWidth {
			nameWidth = len(c.Name)
		}
	}
	fmt.Fprintf(w, "%-*s F S A T D U\n", nameWidth, "Name")
	for _, c := range i.Columns {
		fmt.Fprintf(w, "%-*s %c %c %c %c %c %c\n", nameWidth, c.Name,
			flag(c.Options&store.OptionFixedShape != 0, 'F'),
			flag(c.IsScalar(), 'S'),
			flag(c.IsArray(), 'A'),
			flag(c.IsTable(), 'T'),
			flag(c.Options&store.OptionDirect != 0, 'D'),
			flag(c.Options&store.OptionUndefined != 0, 'U'))
	}
}

func flag(set bool, mark rune) rune {
	if set {
		return mark
	}
	return ' '
}
