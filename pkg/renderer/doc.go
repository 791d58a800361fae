// Package renderer resolves template files under a root directory, executes
// them with a merged data context and captures the output, optionally
// wrapping it in a layout template.
//
// A render runs in two passes when a layout is configured: the named template
// is executed first, then its output is bound as "content" and the layout is
// executed with the same data. The key "template" is reserved and rejected in
// caller data.
//
//	r, err := renderer.New("views", map[string]any{"site": "Docs"}, "layout.tpl")
//	if err != nil {
//		return err
//	}
//	html, err := r.Render("pages/home.tpl", map[string]any{"title": "Home"})
package renderer
