package core

// ---------- Table Reference Types ----------

// TableName represents a table name reference.
type TableName struct {
	NodeInfo
	Schema string
	Name   string
	DBLink string // Oracle remote reference: name@link
	Alias  string
}

func (*TableName) tableRefNode() {}

// Identity implements TableRef.
func (t *TableName) Identity() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// DerivedTable represents a subquery in FROM clause.
type DerivedTable struct {
	NodeInfo
	Lateral bool
	Select  *SelectStmt
	Alias   string
}

func (*DerivedTable) tableRefNode() {}

// Identity implements TableRef.
func (d *DerivedTable) Identity() string { return d.Alias }
