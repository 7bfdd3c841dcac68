package task

import (
	"strings"

	"github.com/rivo/uniseg"
)

// graphemes splits s into user-perceived characters.
func graphemes(s string) []string {
	if s == "" {
		return nil
	}

	clusters := make([]string, 0, len(s))

	g := uniseg.NewGraphemes(s)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}

	return clusters
}

// cursor is a one-pass reader over pre-split grapheme clusters. It never
// backtracks: peek inspects the current cluster without consuming it, next
// consumes one cluster, take consumes up to n clusters at once.
type cursor struct {
	clusters []string
	pos      int
}

func newCursor(s string) *cursor {
	return &cursor{clusters: graphemes(s)}
}

func (c *cursor) peek() (string, bool) {
	if c.pos >= len(c.clusters) {
		return "", false
	}

	return c.clusters[c.pos], true
}

func (c *cursor) next() (string, bool) {
	if c.pos >= len(c.clusters) {
		return "", false
	}

	g := c.clusters[c.pos]
	c.pos++

	return g, true
}

// rest consumes and returns everything remaining.
func (c *cursor) rest() string {
	return c.take(len(c.clusters) - c.pos)
}

// take consumes up to n clusters and returns them joined.
func (c *cursor) take(n int) string {
	end := c.pos + n
	if end > len(c.clusters) {
		end = len(c.clusters)
	}

	s := strings.Join(c.clusters[c.pos:end], "")
	c.pos = end

	return s
}
