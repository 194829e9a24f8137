package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel inserts every db-tagged field of model. Tags with the
// ",readonly" option (identity, creation timestamps) are skipped. A model
// that cannot be mapped surfaces from ToSQL.
func InsertModel(table string, model any) *InsertBuilder {
	b := InsertInto(table)
	cols, vals, err := columnsAndValues(model, nil)
	if err != nil {
		b.err = err
		return b
	}
	return b.Columns(cols...).Values(vals...)
}

// UpdateModel sets every writable db-tagged field of model except the listed
// key columns, which become equality conditions.
func UpdateModel(table string, model any, keyColumns ...string) (string, []any, error) {
	keys := make(map[string]struct{}, len(keyColumns))
	for _, col := range keyColumns {
		keys[col] = struct{}{}
	}

	cols, vals, err := columnsAndValues(model, keys)
	if err != nil {
		return "", nil, err
	}
	keyVals, err := valuesFor(model, keyColumns)
	if err != nil {
		return "", nil, err
	}

	builder := Update(table)
	for i, col := range cols {
		builder.Set(col, vals[i])
	}
	for i, col := range keyColumns {
		builder.Where(Eq(col, keyVals[i]))
	}
	return builder.ToSQL()
}

// Columns lists every db-tagged column of model in field order, readonly included.
func Columns(model any) []string {
	typ := reflect.TypeOf(model)
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil
	}

	out := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		if col, _, ok := dbColumn(typ.Field(i)); ok {
			out = append(out, col)
		}
	}
	return out
}

func columnsAndValues(model any, skip map[string]struct{}) ([]string, []any, error) {
	value, err := structValue(model)
	if err != nil {
		return nil, nil, err
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		col, readonly, ok := dbColumn(typ.Field(i))
		if !ok || readonly {
			continue
		}
		if _, skipped := skip[col]; skipped {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no writable db columns")
	}
	return cols, vals, nil
}

func valuesFor(model any, columns []string) ([]any, error) {
	value, err := structValue(model)
	if err != nil {
		return nil, err
	}

	byColumn := make(map[string]any)
	typ := value.Type()
	for i := 0; i < typ.NumField(); i++ {
		if col, _, ok := dbColumn(typ.Field(i)); ok {
			byColumn[col] = value.Field(i).Interface()
		}
	}

	out := make([]any, 0, len(columns))
	for _, col := range columns {
		v, ok := byColumn[col]
		if !ok {
			return nil, fmt.Errorf("model has no column %q", col)
		}
		out = append(out, v)
	}
	return out, nil
}

func structValue(model any) (reflect.Value, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("model must be struct")
	}
	return value, nil
}

func dbColumn(field reflect.StructField) (string, bool, bool) {
	if field.PkgPath != "" {
		return "", false, false
	}
	tag := strings.TrimSpace(field.Tag.Get("db"))
	if tag == "" || tag == "-" {
		return "", false, false
	}
	parts := strings.Split(tag, ",")
	col := strings.TrimSpace(parts[0])
	if col == "" || col == "-" {
		return "", false, false
	}
	readonly := false
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "readonly" {
			readonly = true
		}
	}
	return col, readonly, true
}
