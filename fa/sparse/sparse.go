/*
Package sparse implements a simple type for sparse integer matrices.
It is mainly used for transition tables of deterministic finite automata,
where most (state, symbol) cells of a partial DFA are empty.

This implementation uses the COO algorithm (a.k.a. triplet-encoding).

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package sparse

// IntMatrix is a type for a sparse matrix of integer values. Construct with
//
//     M := NewIntMatrix(10, 10, -1)  // last parameter is M's null-value
//
// Now
//
//     M.Set(2, 3, 4711)              // set a value
//     v := M.Value(2, 3)             // returns 4711
//     cnt := M.ValueCount()          // returns 1 (one position set)
//     v = M.Value(9, 9)              // returns -1, i.e. the null-value
//
// Values cannot be deleted, but may be overwritten with the null-value. Space
// for null-values is not re-claimed.
type IntMatrix struct {
	values  []triplet
	rowcnt  int
	colcnt  int
	nullval int32
}

// Triplet values to store
type triplet struct {
	row, col int
	value    int32
}

// NewIntMatrix creates a new matrix for int, size m x n. The 3rd argument is a
// null-value, indicating empty entries (use DefaultNullValue if you haven't any
// specific requirements).
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{
		values:  []triplet{},
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// DefaultNullValue is the default empty-value for matrices (min int32).
const DefaultNullValue = -2147483648

// M returns the row count.
func (m *IntMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *IntMatrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value
func (m *IntMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of values in the matrix.
func (m *IntMatrix) ValueCount() int {
	return len(m.values)
}

// Value returns the value at position (i,j), or NullValue
func (m *IntMatrix) Value(i, j int) int32 {
	for _, t := range m.values {
		if !t.storedLeftOf(i, j) { // have skipped all lesser indices
			if t.storedAt(i, j) {
				return t.value
			}
			break
		}
	}
	return m.nullval
}

// Set a value in the matrix at position (i,j).
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	at := 0 // will be position of new value
	for k, t := range m.values {
		if !t.storedLeftOf(i, j) { // have skipped all lesser indices
			if t.storedAt(i, j) { // value already present
				m.values[k].value = value
				return m // and done
			}
			break // no old value present
		}
		at++
	}
	tnew := triplet{row: i, col: j, value: value}
	// the following 3 lines have to work for at being the right edge of values or not
	m.values = append(m.values, tnew)    // make room
	copy(m.values[at+1:], m.values[at:]) // copy remainder values one index to right
	m.values[at] = tnew                  // if not append-case: insert new triplet
	return m
}

func (t *triplet) storedLeftOf(i, j int) bool {
	return t.row < i || t.row == i && t.col < j
}

func (t *triplet) storedAt(i, j int) bool {
	return (t.row == i && t.col == j)
}
