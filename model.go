package main

// ColumnSchema is a single column as reported by SQLite's PRAGMA table_info.
type ColumnSchema struct {
	Name       string
	Type       string // declared type, "" when untyped
	NotNull    bool
	Default    *string // raw default expression text, nil when absent
	PKOrdinal  int     // 0 = not in key, >0 = position within the primary key
	OrdinalPos int
}

// SourceTable holds the introspected definition of a SQLite table.
type SourceTable struct {
	Name    string
	Columns []ColumnSchema
}

// DefaultKind distinguishes the three possible outcomes of default translation.
type DefaultKind int

const (
	// DefaultOmit means no DEFAULT clause is emitted.
	DefaultOmit DefaultKind = iota
	// DefaultNull means DEFAULT NULL.
	DefaultNull
	// DefaultLiteral means DEFAULT <Text>.
	DefaultLiteral
)

// DefaultClause is the translated MySQL default for a column.
type DefaultClause struct {
	Kind DefaultKind
	Text string // set only for DefaultLiteral
}

func omitDefault() DefaultClause            { return DefaultClause{Kind: DefaultOmit} }
func nullDefault() DefaultClause            { return DefaultClause{Kind: DefaultNull} }
func literalDefault(s string) DefaultClause { return DefaultClause{Kind: DefaultLiteral, Text: s} }

// TargetColumn is the resolved MySQL definition of a source column.
type TargetColumn struct {
	Name    string
	Type    string // e.g. "BIGINT AUTO_INCREMENT", "TINYINT(1)", "TIMESTAMP(6)"
	NotNull bool
	Default DefaultClause
}

// TablePlan is everything needed to create and fill one MySQL table.
// Columns are aligned positionally with the source column order.
type TablePlan struct {
	Name                string
	Columns             []TargetColumn
	PrimaryKey          []string // column names in ascending key ordinal
	AutoIncrementColumn string   // "" when the table has none
	Warnings            []string
}

// HasAutoIncrement reports whether the table carries an AUTO_INCREMENT column.
func (p *TablePlan) HasAutoIncrement() bool {
	return p.AutoIncrementColumn != ""
}

// ColumnNames returns the column names in source order.
func (p *TablePlan) ColumnNames() []string {
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	return names
}
