// internal/navigation/table.go
package navigation

// Route pairs a compiled pattern with an opaque handler reference.
type Route struct {
	Pattern *Pattern
	Handler interface{}
}

// Table is an ordered route table. Declaration order is significant:
// Resolve returns the first entry whose pattern matches, so ambiguity
// between overlapping patterns is settled purely by position.
type Table struct {
	routes []Route
}

// NewTable compiles the given (pattern, handler) pairs in order.
func NewTable(routes ...Route) *Table {
	return &Table{routes: routes}
}

// Add appends a route, compiling the pattern. Intended for table
// construction; tables are not mutated after the service starts.
func (t *Table) Add(pattern string, handler interface{}) error {
	p, err := Compile(pattern)
	if err != nil {
		return err
	}
	t.routes = append(t.routes, Route{Pattern: p, Handler: handler})
	return nil
}

// Resolve walks the table in declaration order and returns the first
// match. A miss returns ok=false; it is a blank view, not an error.
func (t *Table) Resolve(location string) (interface{}, Params, bool) {
	for _, r := range t.routes {
		if params, ok := r.Pattern.Match(location); ok {
			return r.Handler, params, true
		}
	}
	return nil, nil, false
}

// Len reports the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}
