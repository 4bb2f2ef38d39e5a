package main

import (
	"embed"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/mkrale/sigil"
	"github.com/mkrale/sigil/web"
)

//go:embed views
var dir embed.FS

var engine = sigil.Must(sigil.New(dir, sigil.WithRoot("views")))

func main() {
	server := web.NewServer(engine, web.NewStore([]byte("please-change-this-secret-value!")))
	server.Handle("/", "index.html", &guestbook{})

	log.Println("listening on :8080")
	log.Fatal(http.ListenAndServe(":8080", server))
}

// guestbook renders the signing form and accepts new entries.
type guestbook struct {
	mu      sync.Mutex
	entries []any
}

func (g *guestbook) All(c *web.Context) (sigil.Data, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return sigil.Data{
		"title":        "Guestbook",
		"entries":      g.entries,
		"totalRecords": len(g.entries),
	}, nil
}

func (g *guestbook) Post(c *web.Context) (sigil.Data, error) {
	name := strings.TrimSpace(c.Request.FormValue("name"))
	if name == "" {
		c.Session.Flash("error", "A name is required")
	} else {
		g.mu.Lock()
		g.entries = append(g.entries, name)
		g.mu.Unlock()
		c.Session.Flash("success", "Thanks for signing, "+name+"!")
	}

	return g.All(c)
}
