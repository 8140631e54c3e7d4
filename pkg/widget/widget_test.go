package widget

import (
	"errors"
	"strings"
	"testing"
)

type fakeSession struct{}

func (fakeSession) Host() string                         { return "remote" }
func (fakeSession) Port() int                            { return 10000 }
func (fakeSession) ExtraHeaders() map[string]string      { return nil }
func (fakeSession) BindTable(string, *RemoteTable) error { return nil }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		obj  any
		want Kind
	}{
		{"table", &Table{Columns: []string{"x"}}, KindTabular},
		{"dataframe", &DataFrame{}, KindTabular},
		{"remote table", &RemoteTable{Session: fakeSession{}}, KindTabular},
		{"figure", &Figure{Title: "sine"}, KindChart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.obj)
			if err != nil {
				t.Fatalf("Classify() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyUnsupported(t *testing.T) {
	type notAWidget struct{}

	unsupported := []any{
		notAWidget{}, "a string", 42, nil, Table{},
		(*Table)(nil), (*DataFrame)(nil), (*RemoteTable)(nil), (*Figure)(nil),
	}
	for _, obj := range unsupported {
		kind, err := Classify(obj)
		if kind != KindUnknown {
			t.Errorf("Classify(%T) kind = %v, want Unknown", obj, kind)
		}
		if !errors.Is(err, ErrUnsupportedType) {
			t.Fatalf("Classify(%T) error = %v, want ErrUnsupportedType", obj, err)
		}
		var ute *UnsupportedTypeError
		if !errors.As(err, &ute) {
			t.Fatalf("Classify(%T) error is not *UnsupportedTypeError", obj)
		}
		if ute.TypeName != TypeName(obj) {
			t.Errorf("TypeName = %q, want %q", ute.TypeName, TypeName(obj))
		}
	}
}

func TestUnsupportedTypeNamesOffender(t *testing.T) {
	type customThing struct{}
	_, err := Classify(&customThing{})
	if err == nil || !strings.Contains(err.Error(), "customThing") {
		t.Fatalf("error %v does not name the offending type", err)
	}
}

func TestDeriveIdentifier(t *testing.T) {
	if got := DeriveIdentifier("prices"); got != "prices" {
		t.Errorf("DeriveIdentifier(prices) = %q", got)
	}

	id := DeriveIdentifier("")
	if !IsGenerated(id) {
		t.Fatalf("generated id %q lacks prefix %q", id, GeneratedPrefix)
	}
	if strings.Contains(id, "-") {
		t.Errorf("generated id %q contains hyphens", id)
	}
	if IsGenerated("prices") {
		t.Error("IsGenerated(prices) = true")
	}
}

func TestGeneratedIdentifiersDistinct(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewIdentifier()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate identifier after %d calls: %s", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestBuildTargetURL(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		kind  Kind
		id    string
		extra []Param
		want  string
	}{
		{
			name:  "no trailing slash",
			base:  "http://localhost:8899",
			kind:  KindTabular,
			id:    "t_abc",
			extra: []Param{{"nonce", "xyz"}},
			want:  "http://localhost:8899/iframe/table/?name=t_abc&nonce=xyz",
		},
		{
			name:  "trailing slash",
			base:  "http://localhost:8899/",
			kind:  KindTabular,
			id:    "t_abc",
			extra: []Param{{"nonce", "xyz"}},
			want:  "http://localhost:8899/iframe/table/?name=t_abc&nonce=xyz",
		},
		{
			name: "chart with repeated slashes",
			base: "https://dh.example.com//",
			kind: KindChart,
			id:   "f",
			want: "https://dh.example.com/iframe/chart/?name=f",
		},
		{
			name:  "parameter order kept",
			base:  "http://h:1",
			kind:  KindTabular,
			id:    "n",
			extra: []Param{{"nonce", "1"}, {"envoyPrefix", "/p"}, {"authProvider", "parent"}},
			want:  "http://h:1/iframe/table/?name=n&nonce=1&envoyPrefix=%2Fp&authProvider=parent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildTargetURL(tt.base, tt.kind, tt.id, tt.extra...)
			if err != nil {
				t.Fatalf("BuildTargetURL() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildTargetURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildTargetURLUnknownKind(t *testing.T) {
	if _, err := BuildTargetURL("http://h", KindUnknown, "x"); !errors.Is(err, ErrNoPath) {
		t.Fatalf("error = %v, want ErrNoPath", err)
	}
}

func TestBuildWidgetURL(t *testing.T) {
	got := BuildWidgetURL("http://remote:10000/", "shared", Param{"nonce", "n1"})
	want := "http://remote:10000/iframe/widget/?name=shared&nonce=n1"
	if got != want {
		t.Errorf("BuildWidgetURL() = %q, want %q", got, want)
	}
}

func TestParseKind(t *testing.T) {
	for name, want := range map[string]Kind{"table": KindTabular, "Chart": KindChart, " figure ": KindChart} {
		got, err := ParseKind(name)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", name, got, err, want)
		}
	}

	_, err := ParseKind("tabel")
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("ParseKind(tabel) error = %v, want ErrUnknownKind", err)
	}
	var uke *UnknownKindError
	if !errors.As(err, &uke) || uke.Suggestion != "table" {
		t.Errorf("suggestion = %+v, want table", uke)
	}

	_, err = ParseKind("spreadsheet")
	if !errors.As(err, &uke) || uke.Suggestion != "" {
		t.Errorf("far-off name got suggestion %+v", uke)
	}
}

func TestDescribeNilVariant(t *testing.T) {
	if _, err := Describe((*Table)(nil)); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("Describe(nil table) error = %v, want ErrUnsupportedType", err)
	}
}

func TestDescribe(t *testing.T) {
	d, err := Describe(&Table{Columns: []string{"x", "y"}, Rows: 10, Ticking: true})
	if err != nil {
		t.Fatalf("Describe() error: %v", err)
	}
	if d.Kind != "table" || d.Rows != 10 || !d.Ticking || len(d.Columns) != 2 {
		t.Errorf("Describe(table) = %+v", d)
	}

	d, err = Describe(&Figure{Title: "waves", Series: []Series{{Name: "Sine"}, {Name: "Cosine"}}})
	if err != nil {
		t.Fatalf("Describe() error: %v", err)
	}
	if d.Kind != "chart" || d.Title != "waves" || len(d.Series) != 2 {
		t.Errorf("Describe(figure) = %+v", d)
	}

	if _, err := Describe(3.14); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Describe(float) error = %v", err)
	}
}
