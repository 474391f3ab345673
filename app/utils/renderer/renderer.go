package renderer

import "github.com/unrolled/render"

// New builds the shared JSON renderer used by every handler.
func New() *render.Render {
	return render.New(render.Options{
		IndentJSON: true,
	})
}
