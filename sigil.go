package sigil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
)

// ErrNotFound is returned when a view file does not exist.
var ErrNotFound = errors.New("not found")

// Engine expands comment-directive templates into final HTML.
type Engine interface {
	// Render expands the view template against data and writes the result
	// to w. The view is a path relative to the engine's filesystem root.
	Render(w io.Writer, view string, data Data) error

	// RenderRequest is Render with per-request collaborators, enabling the
	// csrf, flush and pagination directives.
	RenderRequest(w io.Writer, req Request, view string, data Data) error

	// Expand runs the directive pipeline over raw template text. dir is the
	// directory the text notionally lives in, used to resolve relative
	// include paths; pass "." for the views root.
	Expand(text, dir string, data Data) string

	// ExpandRequest is Expand with per-request collaborators.
	ExpandRequest(text, dir string, data Data, req Request) string
}

// New creates an Engine reading templates from the given filesystem.
func New(fsys fs.FS, options ...Option) (Engine, error) {
	c := Config{fs: fsys}
	if err := setup(&c, options...); err != nil {
		return nil, fmt.Errorf("error creating new engine: %w", err)
	}

	return &engine{
		fs:       c.fs,
		maxDepth: c.maxDepth.val,
		now:      c.now.val,
	}, nil
}

// Must returns the engine and panics on error.
//
//	var engine = sigil.Must(sigil.New(viewsDir))
func Must(e Engine, err error) Engine {
	if err != nil {
		panic(err)
	}
	return e
}

type engine struct {
	fs       fs.FS
	maxDepth int
	now      nowFunc
}

// Render implements Engine.
func (e *engine) Render(w io.Writer, view string, data Data) error {
	return e.RenderRequest(w, Request{}, view, data)
}

// RenderRequest implements Engine.
func (e *engine) RenderRequest(w io.Writer, req Request, view string, data Data) error {
	name := viewName(view)
	raw, err := readFile(e.fs, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error rendering '%s': %w", view, ErrNotFound)
		}
		return fmt.Errorf("error rendering '%s': %w", view, err)
	}

	out := e.ExpandRequest(raw, path.Dir(name), data, req)
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("error writing view '%s': %w", view, err)
	}

	return nil
}

// Expand implements Engine.
func (e *engine) Expand(text, dir string, data Data) string {
	return e.ExpandRequest(text, dir, data, Request{})
}

// ExpandRequest implements Engine. Structural passes run first so that the
// shortcode pass also applies inside included and looped content.
func (e *engine) ExpandRequest(text, dir string, data Data, req Request) string {
	out := e.expandBlock(text, dir, data, 0)
	return e.expandShortcodes(out, req, data)
}

// expandBlock runs the structural passes in their mandated order: includes
// (with loop bodies shielded), loops, conditionals, variables. Loop bodies
// re-enter here once per iteration with a shadowed context.
func (e *engine) expandBlock(text, dir string, data Data, depth int) string {
	if depth > e.maxDepth {
		return text
	}

	text = e.expandIncludes(text, dir, data, depth)
	text = e.expandLoops(text, data, depth)
	text = expandConditionals(text, data)
	text = interpolate(text, data)
	return text
}

func readFile(fsys fs.FS, name string) (string, error) {
	f, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("error reading file: %w", err)
	}

	return string(f), nil
}

// viewName normalizes a view path into an fs.FS name.
func viewName(view string) string {
	name := path.Clean("/" + view)
	return name[1:]
}
