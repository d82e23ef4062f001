package inkwell

import (
	"context"
	"strings"

	"github.com/a-h/templ"
)

// RenderString renders a templ component to a string, for embedding HTML in
// JSON and XML documents.
func RenderString(ctx context.Context, cmp templ.Component) (string, error) {
	var b strings.Builder
	if err := cmp.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
