package commands

import (
	"fmt"
	"path"
	"strings"
	"text/tabwriter"

	derrors "git.home.luguber.info/inful/apidocs/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocs/internal/tagmap"
)

// TagsCmd implements the 'tags' command.
type TagsCmd struct {
	Table string `arg:"" optional:"" help:"Table to print (ai-model, management; default: both merged)"`
	Lang  string `help:"Language of folder titles" default:"zh" enum:"en,zh,ja"`
	Check   bool     `help:"Report composite keys that disagree with segment-wise normalization"`
	Resolve []string `short:"r" help:"Print the folder each given tag maps to (repeatable)"`
}

func (c *TagsCmd) Run(g *Global, _ *CLI) error {
	tables, err := c.tables()
	if err != nil {
		return err
	}

	if c.Check {
		return c.check(g, tables)
	}
	if len(c.Resolve) > 0 {
		return c.resolve(g, tables[0])
	}

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	for _, t := range tables {
		for _, key := range t.Keys() {
			folder, _ := t.Lookup(key)
			title := tagmap.DisplayTitle(path.Base(folder), c.Lang)
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", key, folder, title)
		}
	}
	return tw.Flush()
}

// resolve prints tag, folder and title for every --resolve tag. Segments that
// only miss a key by character width are reported; they are not mapped.
func (c *TagsCmd) resolve(g *Global, t *tagmap.Table) error {
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	for _, tag := range c.Resolve {
		folder := tagmap.FolderName(tag)
		if c.Table != "" {
			folder = tagmap.Normalize(tag, t)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", tag, folder, tagmap.DisplayTitle(path.Base(folder), c.Lang))
		for _, seg := range strings.Split(tag, tagmap.Separator) {
			if key, ok := t.Suggest(seg); ok {
				g.Logger.Warn("Tag segment differs from a mapped key only by character width",
					"segment", seg, "key", key, "table", t.Name())
			}
		}
	}
	return tw.Flush()
}

func (c *TagsCmd) tables() ([]*tagmap.Table, error) {
	if c.Table == "" {
		return []*tagmap.Table{tagmap.Combined()}, nil
	}
	t, ok := tagmap.Get(c.Table)
	if !ok {
		return nil, derrors.ConfigError(fmt.Sprintf("unknown tag table %q", c.Table)).
			WithContext("tables", tagmap.Names()).
			Build()
	}
	return []*tagmap.Table{t}, nil
}

func (c *TagsCmd) check(g *Global, tables []*tagmap.Table) error {
	if c.Table == "" {
		tables = nil
		for _, name := range tagmap.Names() {
			t, _ := tagmap.Get(name)
			tables = append(tables, t)
		}
	}

	found := 0
	for _, t := range tables {
		for _, inc := range t.Check() {
			found++
			_, _ = fmt.Fprintf(g.Out, "%s: %q maps to %q but normalizes to %q\n", t.Name(), inc.Key, inc.Mapped, inc.Normalized)
		}
	}
	if found > 0 {
		return derrors.ValidationError(fmt.Sprintf("%d inconsistent tag mapping(s)", found)).Build()
	}
	_, _ = fmt.Fprintln(g.Out, "tag tables are consistent")
	return nil
}
