package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidQuery is returned by ToSQL for statements that cannot be built.
var ErrInvalidQuery = errors.New("querybuilder: invalid query")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// statement accumulates SQL text and numbered arguments.
type statement struct {
	buf  strings.Builder
	args []any
	next int
}

func newStatement(keyword, table string) *statement {
	s := &statement{next: 1}
	s.buf.WriteString(keyword)
	s.buf.WriteString(table)
	return s
}

func (s *statement) bind(v any) string {
	s.args = append(s.args, v)
	s.next++
	return placeholder(s.next - 1)
}

func (s *statement) where(conditions []Condition) {
	appendWhereClause(&s.buf, conditions, &s.args, &s.next)
}

func (s *statement) raw(sql string) {
	if sql != "" {
		s.buf.WriteString(" ")
		s.buf.WriteString(sql)
	}
}

func (s *statement) done() (string, []any, error) {
	return s.buf.String(), s.args, nil
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
	suffix  string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

// Limit of zero or less means no LIMIT clause.
func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

// Suffix appends raw SQL such as FOR UPDATE.
func (b *SelectBuilder) Suffix(sql string) *SelectBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, invalid("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, invalid("select table is required")
	}

	s := newStatement("SELECT ", strings.Join(b.columns, ", "))
	s.buf.WriteString(" FROM ")
	s.buf.WriteString(b.table)
	s.where(b.where)
	if len(b.orderBy) > 0 {
		s.raw("ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.raw("LIMIT " + strconv.Itoa(b.limit))
	}
	s.raw(b.suffix)
	return s.done()
}

type conflictAction int

const (
	conflictNone conflictAction = iota
	conflictDoNothing
	conflictDoUpdate
)

type InsertBuilder struct {
	table     string
	columns   []string
	values    []any
	conflict  []string
	action    conflictAction
	updates   []string
	returning []string
	err       error
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.values = append([]any(nil), values...)
	return b
}

// OnConflict names the unique columns for a following DoNothing or
// DoUpdateExcluded.
func (b *InsertBuilder) OnConflict(columns ...string) *InsertBuilder {
	b.conflict = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) DoNothing() *InsertBuilder {
	b.action = conflictDoNothing
	return b
}

// DoUpdateExcluded overwrites the listed columns with the proposed row. With
// no columns, every inserted column outside the conflict target is updated.
func (b *InsertBuilder) DoUpdateExcluded(columns ...string) *InsertBuilder {
	b.action = conflictDoUpdate
	b.updates = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, invalid("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, invalid("insert columns are required")
	}
	if len(b.values) != len(b.columns) {
		return "", nil, invalid("insert has %d values, expected %d", len(b.values), len(b.columns))
	}
	if b.action != conflictNone && len(b.conflict) == 0 {
		return "", nil, invalid("on conflict requires target columns")
	}

	s := newStatement("INSERT INTO ", b.table)
	s.buf.WriteString(" (" + strings.Join(b.columns, ", ") + ") VALUES (")
	for i, v := range b.values {
		if i > 0 {
			s.buf.WriteString(", ")
		}
		s.buf.WriteString(s.bind(v))
	}
	s.buf.WriteString(")")

	switch b.action {
	case conflictDoNothing:
		s.raw("ON CONFLICT (" + strings.Join(b.conflict, ", ") + ") DO NOTHING")
	case conflictDoUpdate:
		sets := b.excludedSets()
		if len(sets) == 0 {
			return "", nil, invalid("on conflict update has no columns to set")
		}
		s.raw("ON CONFLICT (" + strings.Join(b.conflict, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", "))
	}
	if len(b.returning) > 0 {
		s.raw("RETURNING " + strings.Join(b.returning, ", "))
	}
	return s.done()
}

func (b *InsertBuilder) excludedSets() []string {
	columns := b.updates
	if len(columns) == 0 {
		target := make(map[string]struct{}, len(b.conflict))
		for _, col := range b.conflict {
			target[col] = struct{}{}
		}
		for _, col := range b.columns {
			if _, ok := target[col]; !ok {
				columns = append(columns, col)
			}
		}
	}

	sets := make([]string, 0, len(columns))
	for _, col := range columns {
		sets = append(sets, col+" = EXCLUDED."+col)
	}
	return sets
}

type setClause struct {
	column string
	value  any
	expr   *exprCondition
}

type UpdateBuilder struct {
	table string
	sets  []setClause
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, value: value})
	return b
}

// SetExpr sets column to a raw expression; each ? binds the next arg.
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, expr: &exprCondition{expr: expr, args: args}})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, invalid("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, invalid("update sets are required")
	}

	s := newStatement("UPDATE ", b.table)
	s.buf.WriteString(" SET ")
	for i, set := range b.sets {
		if i > 0 {
			s.buf.WriteString(", ")
		}
		s.buf.WriteString(set.column + " = ")
		if set.expr != nil {
			s.buf.WriteString(rewritePlaceholders(set.expr.expr, set.expr.args, &s.args, &s.next))
			continue
		}
		s.buf.WriteString(s.bind(set.value))
	}
	s.where(b.where)
	return s.done()
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to build an unconditioned delete.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, invalid("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, invalid("delete requires at least one condition")
	}

	s := newStatement("DELETE FROM ", b.table)
	s.where(b.where)
	return s.done()
}
