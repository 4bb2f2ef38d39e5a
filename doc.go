// Package sigil provides a server-side template expansion engine for a small
// directive language embedded inside HTML comments.
//
// The core component of this package is the [Engine], which maps a view file
// to final HTML by running a fixed pipeline of text rewriting passes over the
// template: includes, loops, conditionals, variables, and finally the
// shortcode directives (csrf, flush, date, pagination).
//
// Directives are HTML comments and are case-insensitive:
//
//	<!--$name-->                          variable
//	<!--$name[key]-->                     keyed variable
//	<!--if($name)-->...<!--endif-->       conditional
//	<!--if(!$name)-->...<!--endif-->      negated conditional
//	<!--foreach($xs as $v)-->...<!--endforeach-->
//	<!--foreach($xs as $k=>$v)-->...<!--endforeach-->
//	<!--include:path ['key'=>'value']-->
//	<!--csrf-->  <!--csrf_token-->  <!--flush-->  <!--flush:key-->
//	<!--date-->  <!--date 2006-01-02-->  <!--pagination-->  <!--pagination 25-->
//
// Rendering never aborts on data or template problems: missing variables
// interpolate to the empty string, missing loop containers remove the block,
// and unresolved includes leave a diagnostic comment in the output. Every
// render re-reads and re-expands the template; there is no compiled form and
// no cache, which keeps behavior predictable across edits.
//
// Example Usage:
//
//	engine, err := sigil.New(os.DirFS("web"), sigil.WithRoot("views"))
//	if err != nil {
//	    // handle error
//	}
//
//	data := sigil.Data{
//	    "title": "My Page",
//	    "items": []any{"one", "two"},
//	}
//
//	handler := func(w http.ResponseWriter, r *http.Request) {
//	    engine.Render(w, "index.html", data)
//	}
//
// Per-request directives (csrf, flush, pagination) need the collaborators
// carried by [Request]; the web subpackage supplies cookie-backed sessions
// and routing around them.
package sigil
