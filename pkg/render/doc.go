// Package render writes the HTML produced by a page rerun.
//
// Pages are a flat list of Nodes collected in a Buffer while the page body
// runs. Widgets are rendered as IFrame nodes pointing at the backend:
//
//	var page render.Buffer
//	page.Add(render.Heading(3, "Prices"))
//	page.Add(&render.IFrame{Src: url, Height: 400})
//
//	render.RenderDocument(w, render.Document{Title: "Demo", Body: &page})
//
// All text and attribute values are escaped.
package render
