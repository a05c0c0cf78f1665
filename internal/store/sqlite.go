package store

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/golang/snappy"
	_ "github.com/mattn/go-sqlite3"

	verrors "github.com/visbench/visbench/internal/errors"
	"github.com/visbench/visbench/pkg/types"
)

// Column names inside the store file.
const (
	ColTime = "TIME"
	ColUvw  = "UVW"
	ColData = "DATA"
)

// SQLiteTable is the SQLite-backed Table implementation. One table is one
// database file: a cells table keyed by row_id with one SQL column per
// field, all rows pre-allocated at creation, plus a columns table recording
// each field's declared schema for introspection.
type SQLiteTable struct {
	db       *sql.DB
	path     string
	rowCount int
	time     *scalarColumn
	uvw      *arrayColumn[float32]
	data     *arrayColumn[complex64]
}

// Create destroys anything at path and creates a fresh table sized for the
// shape. DATA cell payloads are snappy-compressed; the compression is
// lossless, so read-back stays bit-exact.
func Create(path string, shape types.Shape) (*SQLiteTable, error) {
	if err := shape.Validate(); err != nil {
		return nil, verrors.Wrap(verrors.ErrCategoryConfig, verrors.CodeBadDimension, "invalid table shape", err)
	}
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.RemoveAll(p); err != nil {
			return nil, verrors.NewStoreError(verrors.CodeTableCreate, "removing previous table", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, verrors.NewStoreError(verrors.CodeTableCreate, "opening table database", err)
	}

	// The table is an ephemeral fixture rebuilt on every run, so durability
	// pragmas are relaxed in favor of measuring write-path cost.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=OFF",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, verrors.NewStoreError(verrors.CodeTableCreate, "setting pragma", err)
		}
	}

	ddl := []string{
		`CREATE TABLE cells (
			row_id INTEGER PRIMARY KEY,
			time   REAL,
			uvw    BLOB,
			data   BLOB
		)`,
		`CREATE TABLE columns (
			name      TEXT PRIMARY KEY,
			value_kind TEXT NOT NULL,
			elem_type  TEXT NOT NULL,
			row_shape  TEXT NOT NULL,
			options    INTEGER NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, verrors.NewStoreError(verrors.CodeTableCreate, "creating schema", err)
		}
	}

	specs := []ColumnSpec{
		{Name: ColTime, ValueKind: ValueKindScalar, ElemType: ElemTypeDouble,
			Options: OptionDirect | OptionFixedShape},
		{Name: ColUvw, ValueKind: ValueKindArray, ElemType: ElemTypeFloat,
			RowShape: []int{types.UvwLen}, Options: OptionDirect | OptionFixedShape},
		{Name: ColData, ValueKind: ValueKindArray, ElemType: ElemTypeComplex,
			RowShape: shape.DataRowShape(), Options: OptionDirect | OptionFixedShape},
	}
	for _, spec := range specs {
		if _, err := db.Exec(
			`INSERT INTO columns (name, value_kind, elem_type, row_shape, options) VALUES (?, ?, ?, ?, ?)`,
			spec.Name, spec.ValueKind, spec.ElemType, spec.shapeJSON(), spec.Options,
		); err != nil {
			db.Close()
			return nil, verrors.NewStoreError(verrors.CodeTableCreate, "recording column schema", err)
		}
	}

	// Row-count-based allocation: every row exists up front, writes are
	// updates against pre-allocated rows.
	rows := shape.RowCount()
	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, verrors.NewStoreError(verrors.CodeTableCreate, "allocating rows", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO cells (row_id) VALUES (?)`)
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, verrors.NewStoreError(verrors.CodeTableCreate, "allocating rows", err)
	}
	for i := 0; i < rows; i++ {
		if _, err := stmt.Exec(i); err != nil {
			stmt.Close()
			tx.Rollback()
			db.Close()
			return nil, verrors.NewStoreError(verrors.CodeTableCreate, "allocating rows", err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		db.Close()
		return nil, verrors.NewStoreError(verrors.CodeTableCreate, "allocating rows", err)
	}

	return newSQLiteTable(db, path, rows, shape.DataRowShape()), nil
}

// Open opens an existing table read/write. The row count and DATA row shape
// are recovered from the file itself.
func Open(path string) (*SQLiteTable, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, verrors.NewStoreError(verrors.CodeReadFailed, "opening table", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, verrors.NewStoreError(verrors.CodeReadFailed, "opening table database", err)
	}

	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM cells`).Scan(&rows); err != nil {
		db.Close()
		return nil, verrors.NewStoreError(verrors.CodeReadFailed, "counting rows", err)
	}

	var shapeJSON string
	if err := db.QueryRow(`SELECT row_shape FROM columns WHERE name = ?`, ColData).Scan(&shapeJSON); err != nil {
		db.Close()
		return nil, verrors.NewStoreError(verrors.CodeReadFailed, "reading DATA column schema", err)
	}
	dataShape, err := parseShapeJSON(shapeJSON)
	if err != nil {
		db.Close()
		return nil, verrors.NewStoreError(verrors.CodeReadFailed, "parsing DATA column shape", err)
	}

	return newSQLiteTable(db, path, rows, dataShape), nil
}

func newSQLiteTable(db *sql.DB, path string, rows int, dataShape []int) *SQLiteTable {
	dataElems := 1
	for _, d := range dataShape {
		dataElems *= d
	}
	return &SQLiteTable{
		db:       db,
		path:     path,
		rowCount: rows,
		time:     &scalarColumn{db: db, col: "time", rowCount: rows},
		uvw: &arrayColumn[float32]{
			db: db, col: "uvw", rowCount: rows, elemsPerRow: types.UvwLen,
			encode: encodeFloat32s, decode: decodeFloat32s,
		},
		data: &arrayColumn[complex64]{
			db: db, col: "data", rowCount: rows, elemsPerRow: dataElems, compress: true,
			encode: encodeComplex64s, decode: decodeComplex64s,
		},
	}
}

// Time returns the scalar TIME column.
func (t *SQLiteTable) Time() Column[float64] { return t.time }

// Uvw returns the UVW vector column.
func (t *SQLiteTable) Uvw() Column[float32] { return t.uvw }

// Data returns the DATA matrix column.
func (t *SQLiteTable) Data() Column[complex64] { return t.data }

// RowCount returns the allocated row count.
func (t *SQLiteTable) RowCount() int { return t.rowCount }

// Path returns the backing file path.
func (t *SQLiteTable) Path() string { return t.path }

// Columns returns the declared column schemas in creation order.
func (t *SQLiteTable) Columns() ([]ColumnSpec, error) {
	rows, err := t.db.Query(`SELECT name, value_kind, elem_type, row_shape, options FROM columns ORDER BY rowid`)
	if err != nil {
		return nil, verrors.NewStoreError(verrors.CodeReadFailed, "reading column schemas", err)
	}
	defer rows.Close()

	var specs []ColumnSpec
	for rows.Next() {
		var spec ColumnSpec
		var shapeJSON string
		if err := rows.Scan(&spec.Name, &spec.ValueKind, &spec.ElemType, &shapeJSON, &spec.Options); err != nil {
			return nil, verrors.NewStoreError(verrors.CodeReadFailed, "reading column schemas", err)
		}
		if spec.RowShape, err = parseShapeJSON(shapeJSON); err != nil {
			return nil, verrors.NewStoreError(verrors.CodeReadFailed, "parsing column shape", err)
		}
		specs = append(specs, spec)
	}
	return specs, rows.Err()
}

// Close closes the backing database.
func (t *SQLiteTable) Close() error {
	return t.db.Close()
}

// scalarColumn stores one REAL value per row.
type scalarColumn struct {
	db       *sql.DB
	col      string
	rowCount int
}

func (c *scalarColumn) PutCell(row int, values []float64) error {
	if len(values) != 1 {
		return verrors.NewInternalError(
			fmt.Sprintf("column %s: cell payload holds %d elements, want 1", c.col, len(values)), nil)
	}
	if _, err := c.db.Exec(`UPDATE cells SET `+c.col+` = ? WHERE row_id = ?`, values[0], row); err != nil {
		return verrors.NewStoreError(verrors.CodeWriteFailed, fmt.Sprintf("column %s: cell %d", c.col, row), err)
	}
	return nil
}

func (c *scalarColumn) PutRange(start, end int, values []float64) error {
	if err := checkRange(c.col, start, end, c.rowCount, len(values), 1); err != nil {
		return err
	}
	return c.putBulk(rangeRows(start, end), values)
}

func (c *scalarColumn) PutRows(rows []int, values []float64) error {
	if len(values) != len(rows) {
		return verrors.NewInternalError(
			fmt.Sprintf("column %s: %d values for %d rows", c.col, len(values), len(rows)), nil)
	}
	return c.putBulk(rows, values)
}

func (c *scalarColumn) PutColumn(values []float64) error {
	return c.PutRange(0, c.rowCount, values)
}

func (c *scalarColumn) putBulk(rows []int, values []float64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return verrors.NewStoreError(verrors.CodeWriteFailed, "column "+c.col, err)
	}
	stmt, err := tx.Prepare(`UPDATE cells SET ` + c.col + ` = ? WHERE row_id = ?`)
	if err != nil {
		tx.Rollback()
		return verrors.NewStoreError(verrors.CodeWriteFailed, "column "+c.col, err)
	}
	for i, row := range rows {
		if _, err := stmt.Exec(values[i], row); err != nil {
			stmt.Close()
			tx.Rollback()
			return verrors.NewStoreError(verrors.CodeWriteFailed, fmt.Sprintf("column %s: row %d", c.col, row), err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		return verrors.NewStoreError(verrors.CodeWriteFailed, "column "+c.col, err)
	}
	return nil
}

func (c *scalarColumn) ReadColumn() ([]float64, error) {
	rows, err := c.db.Query(`SELECT ` + c.col + ` FROM cells ORDER BY row_id`)
	if err != nil {
		return nil, verrors.NewStoreError(verrors.CodeReadFailed, "column "+c.col, err)
	}
	defer rows.Close()

	out := make([]float64, 0, c.rowCount)
	for rows.Next() {
		var v sql.NullFloat64
		if err := rows.Scan(&v); err != nil {
			return nil, verrors.NewStoreError(verrors.CodeReadFailed, "column "+c.col, err)
		}
		if !v.Valid {
			// Unwritten row; omit so validation sees the short read.
			continue
		}
		out = append(out, v.Float64)
	}
	if err := rows.Err(); err != nil {
		return nil, verrors.NewStoreError(verrors.CodeReadFailed, "column "+c.col, err)
	}
	return out, nil
}

// arrayColumn stores one fixed-shape element array per row as a packed blob.
type arrayColumn[E types.Element] struct {
	db          *sql.DB
	col         string
	rowCount    int
	elemsPerRow int
	compress    bool
	encode      func([]E) []byte
	decode      func([]byte) ([]E, error)
}

func (c *arrayColumn[E]) PutCell(row int, values []E) error {
	if len(values) != c.elemsPerRow {
		return verrors.NewInternalError(
			fmt.Sprintf("column %s: cell payload holds %d elements, want %d", c.col, len(values), c.elemsPerRow), nil)
	}
	if _, err := c.db.Exec(`UPDATE cells SET `+c.col+` = ? WHERE row_id = ?`, c.encodeRow(values), row); err != nil {
		return verrors.NewStoreError(verrors.CodeWriteFailed, fmt.Sprintf("column %s: cell %d", c.col, row), err)
	}
	return nil
}

func (c *arrayColumn[E]) PutRange(start, end int, values []E) error {
	if err := checkRange(c.col, start, end, c.rowCount, len(values), c.elemsPerRow); err != nil {
		return err
	}
	return c.putBulk(rangeRows(start, end), values)
}

func (c *arrayColumn[E]) PutRows(rows []int, values []E) error {
	if len(values) != len(rows)*c.elemsPerRow {
		return verrors.NewInternalError(
			fmt.Sprintf("column %s: %d values for %d rows of %d elements", c.col, len(values), len(rows), c.elemsPerRow), nil)
	}
	return c.putBulk(rows, values)
}

func (c *arrayColumn[E]) PutColumn(values []E) error {
	return c.PutRange(0, c.rowCount, values)
}

func (c *arrayColumn[E]) putBulk(rows []int, values []E) error {
	tx, err := c.db.Begin()
	if err != nil {
		return verrors.NewStoreError(verrors.CodeWriteFailed, "column "+c.col, err)
	}
	stmt, err := tx.Prepare(`UPDATE cells SET ` + c.col + ` = ? WHERE row_id = ?`)
	if err != nil {
		tx.Rollback()
		return verrors.NewStoreError(verrors.CodeWriteFailed, "column "+c.col, err)
	}
	for i, row := range rows {
		cell := values[i*c.elemsPerRow : (i+1)*c.elemsPerRow]
		if _, err := stmt.Exec(c.encodeRow(cell), row); err != nil {
			stmt.Close()
			tx.Rollback()
			return verrors.NewStoreError(verrors.CodeWriteFailed, fmt.Sprintf("column %s: row %d", c.col, row), err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		return verrors.NewStoreError(verrors.CodeWriteFailed, "column "+c.col, err)
	}
	return nil
}

func (c *arrayColumn[E]) ReadColumn() ([]E, error) {
	rows, err := c.db.Query(`SELECT ` + c.col + ` FROM cells ORDER BY row_id`)
	if err != nil {
		return nil, verrors.NewStoreError(verrors.CodeReadFailed, "column "+c.col, err)
	}
	defer rows.Close()

	out := make([]E, 0, c.rowCount*c.elemsPerRow)
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, verrors.NewStoreError(verrors.CodeReadFailed, "column "+c.col, err)
		}
		if blob == nil {
			continue
		}
		cell, err := c.decodeRow(blob)
		if err != nil {
			return nil, verrors.NewStoreError(verrors.CodeReadFailed, "column "+c.col, err)
		}
		out = append(out, cell...)
	}
	if err := rows.Err(); err != nil {
		return nil, verrors.NewStoreError(verrors.CodeReadFailed, "column "+c.col, err)
	}
	return out, nil
}

func (c *arrayColumn[E]) encodeRow(values []E) []byte {
	b := c.encode(values)
	if c.compress {
		return snappy.Encode(nil, b)
	}
	return b
}

func (c *arrayColumn[E]) decodeRow(blob []byte) ([]E, error) {
	if c.compress {
		raw, err := snappy.Decode(nil, blob)
		if err != nil {
			return nil, err
		}
		blob = raw
	}
	return c.decode(blob)
}

func checkRange(col string, start, end, rowCount, nvalues, elemsPerRow int) error {
	if start < 0 || end > rowCount || start >= end {
		return verrors.NewPlanError(verrors.CodeBadRowRange,
			fmt.Sprintf("column %s: row range [%d, %d) out of bounds for %d rows", col, start, end, rowCount))
	}
	if nvalues != (end-start)*elemsPerRow {
		return verrors.NewInternalError(
			fmt.Sprintf("column %s: %d values for range [%d, %d) of %d elements per row",
				col, nvalues, start, end, elemsPerRow), nil)
	}
	return nil
}

func rangeRows(start, end int) []int {
	rows := make([]int, end-start)
	for i := range rows {
		rows[i] = start + i
	}
	return rows
}
