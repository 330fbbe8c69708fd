package main

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"
)

type coercion int

const (
	coercePassthrough coercion = iota
	coerceBoolean
	coerceDatetime
	coerceJSON
	coerceText
)

// coercionFor picks the per-value transform from a resolved MySQL type.
func coercionFor(mysqlType string) coercion {
	upper := strings.ToUpper(mysqlType)
	switch {
	case upper == typeBoolean:
		return coerceBoolean
	case strings.HasPrefix(upper, "TIMESTAMP"), strings.HasPrefix(upper, "DATETIME"):
		return coerceDatetime
	case upper == typeJSON:
		return coerceJSON
	case strings.Contains(upper, "TEXT"), strings.Contains(upper, "CHAR"):
		return coerceText
	default:
		return coercePassthrough
	}
}

// rowCoercer rewrites SQLite row values into values MySQL accepts for the
// table's resolved column types. The per-column transform is chosen once.
type rowCoercer struct {
	table   string
	columns []TargetColumn
	kinds   []coercion
	opts    TranslateOptions
	warn    warnFunc
}

func newRowCoercer(plan *TablePlan, opts TranslateOptions, warn warnFunc) *rowCoercer {
	kinds := make([]coercion, len(plan.Columns))
	for i, c := range plan.Columns {
		kinds[i] = coercionFor(c.Type)
	}
	return &rowCoercer{table: plan.Name, columns: plan.Columns, kinds: kinds, opts: opts, warn: warn}
}

// coerce transforms values in place. values must be aligned with the plan's columns.
func (c *rowCoercer) coerce(values []any) {
	for i, v := range values {
		if i >= len(c.kinds) {
			return
		}
		values[i] = c.coerceValue(i, v)
	}
}

func (c *rowCoercer) coerceValue(i int, val any) any {
	if val == nil {
		return nil
	}
	col := c.columns[i]

	switch c.kinds[i] {
	case coerceBoolean:
		return coerceBooleanValue(val)

	case coerceDatetime:
		var s string
		switch v := val.(type) {
		case time.Time:
			return formatDatetime(v)
		case string:
			s = v
		case []byte:
			s = string(v)
		default:
			return nil
		}
		if dt, ok := normalizeDatetime(s); ok {
			return dt
		}
		return nil

	case coerceJSON:
		if b, ok := val.([]byte); ok {
			return c.decodeText(col.Name, b)
		}

	case coerceText:
		b, ok := val.([]byte)
		if !ok {
			return val
		}
		if c.opts.Binary16AsUUID && strings.EqualFold(col.Type, typeUUID) && len(b) == 16 {
			if u, err := uuid.FromBytes(b); err == nil {
				return u.String()
			}
		}
		return c.decodeText(col.Name, b)
	}
	return val
}

// coerceBooleanValue maps the usual SQLite boolean spellings to 0/1.
// Unrecognized values pass through for the insert to accept or reject.
func coerceBooleanValue(val any) any {
	switch v := val.(type) {
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case int64:
		if v == 1 || v == 0 {
			return v
		}
	case int:
		if v == 1 || v == 0 {
			return int64(v)
		}
	case float64:
		if v == 1 {
			return int64(1)
		}
		if v == 0 {
			return int64(0)
		}
	case string:
		switch strings.ToLower(v) {
		case "true", "t", "1":
			return int64(1)
		case "false", "f", "0":
			return int64(0)
		}
	}
	return val
}

// decodeText returns b as a UTF-8 string. Invalid sequences are replaced with
// U+FFFD and reported; a decoder failure yields NULL.
func (c *rowCoercer) decodeText(column string, b []byte) any {
	if utf8.Valid(b) {
		return string(b)
	}
	c.warn("invalid UTF-8 in %s.%s, decoding with replacement characters (%d bytes)", c.table, column, len(b))
	s, err := unicode.UTF8.NewDecoder().String(string(b))
	if err != nil {
		c.warn("could not decode bytes for %s.%s: %v, setting to NULL", c.table, column, err)
		return nil
	}
	return s
}
