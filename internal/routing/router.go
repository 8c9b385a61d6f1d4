// Package routing maps a request path and the session state to the page to render.
package routing

import "strings"

type View string

const (
	ViewLogin       View = "login"
	ViewMarketplace View = "marketplace"
	ViewProduct     View = "product"
	ViewNotFound    View = "not_found"
)

const (
	PathLogin       = "/login"
	PathMarketplace = "/"
	productPrefix   = "/product/"
)

// Decision is either a redirect (Redirect != "") or a view with its path params.
type Decision struct {
	View     View
	Redirect string
	Params   map[string]string
}

func (d Decision) IsRedirect() bool {
	return d.Redirect != ""
}

// ProductPath builds the detail page path for a model id.
func ProductPath(modelID string) string {
	return productPrefix + modelID
}

// Resolve is evaluated on every request; it holds no state.
func Resolve(authenticated bool, path string) Decision {
	view, params := match(path)

	switch view {
	case ViewLogin:
		if authenticated {
			return Decision{Redirect: PathMarketplace}
		}
	case ViewMarketplace, ViewProduct:
		if !authenticated {
			return Decision{Redirect: PathLogin}
		}
	}

	return Decision{View: view, Params: params}
}

func match(path string) (View, map[string]string) {
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}

	switch {
	case path == PathMarketplace:
		return ViewMarketplace, nil
	case path == PathLogin:
		return ViewLogin, nil
	case strings.HasPrefix(path, productPrefix):
		id := strings.TrimPrefix(path, productPrefix)
		if id == "" || strings.Contains(id, "/") {
			return ViewNotFound, nil
		}
		return ViewProduct, map[string]string{"modelId": id}
	}
	return ViewNotFound, nil
}
