package adapter

import (
	"context"
	"strings"

	"github.com/framefold/resolvebridge/internal/bridge/dispatch"
	"github.com/framefold/resolvebridge/internal/bridge/host"
	"github.com/framefold/resolvebridge/internal/bridge/outcome"
	"github.com/framefold/resolvebridge/internal/bridge/schema"
	"github.com/framefold/resolvebridge/internal/bridge/session"
)

func navigationOperations() []dispatch.Operation {
	return []dispatch.Operation{
		{
			Name:        "open_page",
			Description: "Switch the host's active page.",
			Schema: schema.MustCompile(schema.Object(map[string]any{
				"page": schema.NonEmptyString("Target page, case-insensitive. One of media, edit, fusion, color, fairlight, deliver."),
			}, "page")),
			Handler: openPage,
		},
	}
}

// openPage is idempotent: switching to the already-active page succeeds and
// re-commits the same session value. Page names are matched case-insensitively,
// so "Color" and "color" open the same page.
func openPage(ctx context.Context, sess *session.Session, args schema.Args) (map[string]any, *session.Intent, error) {
	name := strings.ToLower(args.String("page"))
	if !host.ValidPage(name) {
		return nil, nil, outcome.NewError(outcome.ValidationError,
			"unknown page %q, expected one of %s", args.String("page"), strings.Join(pageNames(), ", "))
	}
	page := host.Page(name)
	if err := sess.Conn().OpenPage(ctx, page); err != nil {
		return nil, nil, hosterr(err, "open page %s", page)
	}
	intent := &session.Intent{Page: &page}
	return map[string]any{"page": string(page)}, intent, nil
}

func pageNames() []string {
	names := make([]string, 0, len(host.Pages))
	for _, p := range host.Pages {
		names = append(names, string(p))
	}
	return names
}
