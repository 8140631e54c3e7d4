// Package widget defines the objects that can be embedded as backend
// widgets, how they are classified, and how identifiers and iframe URLs are
// derived for them.
//
// The widget layer constructs one of a closed set of variants before calling
// into dhframe:
//
//   - *Table and *DataFrame are Tabular and render in the grid viewer
//   - *Figure is a Chart
//   - *RemoteTable is a Tabular object that lives in a remote session
//
// Classify maps a variant to its Kind; anything else is rejected with an
// *UnsupportedTypeError.
//
// # Identifiers
//
// DeriveIdentifier returns a caller-supplied name unchanged, or generates
// one made of GeneratedPrefix and a 128-bit random suffix:
//
//	id := widget.DeriveIdentifier("")        // "__w_6f1c..."
//	id = widget.DeriveIdentifier("prices")   // "prices"
//
// # URLs
//
//	u, _ := widget.BuildTargetURL("http://localhost:8899", widget.KindTabular, "t_abc",
//	    widget.Param{Key: "nonce", Value: "xyz"})
//	// http://localhost:8899/iframe/table/?name=t_abc&nonce=xyz
package widget
