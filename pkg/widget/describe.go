package widget

// Description is the JSON summary of a bound object served to the viewer.
type Description struct {
	Kind    string   `json:"kind"`
	Type    string   `json:"type"`
	Columns []string `json:"columns,omitempty"`
	Rows    int64    `json:"rows"`
	Ticking bool     `json:"ticking,omitempty"`
	Title   string   `json:"title,omitempty"`
	Series  []string `json:"series,omitempty"`
}

// Describe summarises obj for the resolution endpoint.
func Describe(obj any) (Description, error) {
	kind, err := Classify(obj)
	if err != nil {
		return Description{}, err
	}

	d := Description{Kind: kind.Path(), Type: TypeName(obj)}
	switch o := obj.(type) {
	case *Table:
		d.Columns = o.Columns
		d.Rows = o.Rows
		d.Ticking = o.Ticking
	case *DataFrame:
		d.Columns = o.Columns
		d.Rows = int64(len(o.Data))
	case *RemoteTable:
		d.Columns = o.Columns
	case *Figure:
		d.Title = o.Title
		for _, s := range o.Series {
			d.Series = append(d.Series, s.Name)
		}
	}
	return d, nil
}
