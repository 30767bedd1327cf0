package loading

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

type (
	// Float is the set of element types a table can be loaded as.
	Float interface {
		~float32 | ~float64
	}

	// Rows holds the rows selected by LoadRows.
	Rows[T Float] struct {
		// NCol is the column count of the first data row, 0 for a file
		// without data rows.
		NCol int
		// Values maps requested row indices to their values. Requested rows
		// beyond the last uniform width row are absent.
		Values map[int][]T
	}

	// ParseError reports a cell that is not a number.
	ParseError struct {
		Path   string
		Line   int
		Column int
		Cell   string
		Err    error
	}

	// TableOption configures LoadTable.
	TableOption func(*tableOptions)

	tableOptions struct {
		delimiter string
	}
)

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: column %d: cannot parse %q: %v", e.Path, e.Line, e.Column, e.Cell, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// errMissing marks an empty cell in LoadTable.
var errMissing = errors.New("missing value")

// WithDelimiter sets the cell delimiter of LoadTable. The default is a single
// space; the empty string splits on runs of whitespace.
func WithDelimiter(d string) TableOption {
	return func(o *tableOptions) { o.delimiter = d }
}

// LoadRows reads the data rows of path whose zero based indices are listed
// in rows. Lines whose first field starts with '#' are not data rows and
// blank lines before the first data row are ignored. The first data row fixes
// the column count and reading stops at the first later line with a different
// number of fields, end of file included. Cells are parsed only for requested
// rows.
func LoadRows[T Float](path string, rows []int) (*Rows[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rows file: %w", err)
	}
	defer func() { _ = f.Close() }()

	want := make(map[int]struct{}, len(rows))
	for _, r := range rows {
		want[r] = struct{}{}
	}
	res := &Rows[T]{Values: make(map[int][]T, len(rows))}

	sc := newScanner(f)
	row, line := 0, 0
	for sc.Scan() {
		line++
		cells := strings.Fields(sc.Text())
		if len(cells) > 0 && strings.HasPrefix(cells[0], "#") {
			continue
		}
		if res.NCol == 0 {
			if len(cells) == 0 {
				continue
			}
			res.NCol = len(cells)
		} else if len(cells) != res.NCol {
			break
		}
		if _, ok := want[row]; ok {
			vals, err := parseCells[T](path, line, cells)
			if err != nil {
				return nil, err
			}
			res.Values[row] = vals
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read rows file: %w", err)
	}
	return res, nil
}

// LoadTable parses the whole of path into a table. Text from '#' to the end
// of a line is a comment and blank lines are skipped. Empty cells, including
// those of rows shorter than the widest row, are missing values and any
// column holding one is dropped. A column none of whose cells is a number is
// dropped as well. A non-numeric cell in any other column is a ParseError.
func LoadTable[T Float](path string, opts ...TableOption) ([][]T, error) {
	o := tableOptions{delimiter: " "}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var (
		cells   [][]string
		lines   []int
		width   int
		sc      = newScanner(f)
		lineNum int
	)
	for sc.Scan() {
		lineNum++
		text, _, _ := strings.Cut(sc.Text(), "#")
		if strings.TrimSpace(text) == "" {
			continue
		}
		row := split(text, o.delimiter)
		width = max(width, len(row))
		cells = append(cells, row)
		lines = append(lines, lineNum)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read table file: %w", err)
	}

	vals := make([][]T, len(cells))
	errs := make([][]error, len(cells))
	complete := make([]bool, width)
	numeric := make([]bool, width)
	for j := range complete {
		complete[j] = true
	}
	for i, row := range cells {
		vals[i] = make([]T, width)
		errs[i] = make([]error, width)
		for j := range width {
			if j >= len(row) {
				complete[j] = false
				continue
			}
			vals[i][j], errs[i][j] = parseCell[T](row[j])
			switch {
			case errors.Is(errs[i][j], errMissing):
				complete[j] = false
			case errs[i][j] == nil:
				numeric[j] = true
			}
		}
	}

	table := make([][]T, len(cells))
	for i, row := range cells {
		out := make([]T, 0, width)
		for j := range width {
			if !complete[j] || !numeric[j] {
				continue
			}
			if err := errs[i][j]; err != nil {
				return nil, &ParseError{Path: path, Line: lines[i], Column: j, Cell: row[j], Err: err}
			}
			out = append(out, vals[i][j])
		}
		table[i] = out
	}
	return table, nil
}

// BitSize returns the precision of T in bits, 32 or 64.
func BitSize[T Float]() int {
	var zero T
	if reflect.TypeOf(zero).Kind() == reflect.Float32 {
		return 32
	}
	return 64
}

func newScanner(f *os.File) *bufio.Scanner {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return sc
}

func split(text, delimiter string) []string {
	if delimiter == "" {
		return strings.Fields(text)
	}
	return strings.Split(strings.TrimRight(text, "\r"), delimiter)
}

func parseCells[T Float](path string, line int, cells []string) ([]T, error) {
	vals := make([]T, len(cells))
	for j, c := range cells {
		v, err := parseCell[T](c)
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, Column: j, Cell: c, Err: err}
		}
		vals[j] = v
	}
	return vals, nil
}

func parseCell[T Float](c string) (T, error) {
	c = strings.TrimSpace(c)
	if c == "" {
		return 0, errMissing
	}
	v, err := strconv.ParseFloat(c, BitSize[T]())
	if err != nil {
		return 0, err
	}
	return T(v), nil
}
