package store

import "encoding/json"

// Column option flags, recorded in the store's schema metadata and reported
// by the introspection tool.
const (
	OptionDirect     = 1 << 0 // cell data stored inline with the row
	OptionUndefined  = 1 << 1 // cells may be left undefined
	OptionFixedShape = 1 << 2 // every cell has the declared shape
)

// Value kinds a column can hold.
const (
	ValueKindScalar = "scalar"
	ValueKindArray  = "array"
	ValueKindTable  = "table"
)

// Element types a column can hold.
const (
	ElemTypeDouble  = "double"
	ElemTypeFloat   = "float"
	ElemTypeComplex = "complex"
)

// ColumnSpec declares one column's schema: its value kind, element type,
// fixed per-row shape and storage options.
type ColumnSpec struct {
	Name      string `json:"name"`
	ValueKind string `json:"value_kind"`
	ElemType  string `json:"elem_type"`
	RowShape  []int  `json:"row_shape"`
	Options   int    `json:"options"`
}

// IsScalar reports whether the column holds one element per row.
func (c ColumnSpec) IsScalar() bool { return c.ValueKind == ValueKindScalar }

// IsArray reports whether the column holds a fixed-shape array per row.
func (c ColumnSpec) IsArray() bool { return c.ValueKind == ValueKindArray }

// IsTable reports whether the column holds a nested table per row.
func (c ColumnSpec) IsTable() bool { return c.ValueKind == ValueKindTable }

// ElemsPerRow is the product of the row shape dimensions (1 for scalars).
func (c ColumnSpec) ElemsPerRow() int {
	n := 1
	for _, d := range c.RowShape {
		n *= d
	}
	return n
}

func (c ColumnSpec) shapeJSON() string {
	if len(c.RowShape) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(c.RowShape)
	return string(b)
}

func parseShapeJSON(s string) ([]int, error) {
	var shape []int
	if err := json.Unmarshal([]byte(s), &shape); err != nil {
		return nil, err
	}
	return shape, nil
}
