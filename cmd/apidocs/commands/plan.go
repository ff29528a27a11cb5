package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/hashicorp/go-multierror"

	derrors "git.home.luguber.info/inful/apidocs/internal/foundation/errors"
)

// PlanCmd implements the 'plan' command.
type PlanCmd struct {
	Surface []string `short:"s" help:"Surface to plan (repeatable, default: all)"`
}

func (c *PlanCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	surfaces, err := selectSurfaces(cfg, c.Surface)
	if err != nil {
		return err
	}

	gen := newGenerator(g, cfg, nil, false)
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	var collisions *multierror.Error

	for _, s := range surfaces {
		plan, err := gen.Plan(g.Context(), s)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(tw, "# %s (%s) -> %s\n", s.Title, s.Source, s.Output)
		for _, d := range plan.Pages {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Operation.Method, d.Operation.Route, d.Path)
		}
		for _, sk := range plan.Skips {
			method := sk.Ref.Method
			if method == "" {
				method = "-"
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\tskipped: %s\n", method, sk.Ref.Route, sk.Reason)
		}
		_, _ = fmt.Fprintf(tw, "# %d pages, %d skipped, %d folders\n\n", len(plan.Pages), len(plan.Skips), len(plan.Folders()))

		if err := plan.CheckCollisions(); err != nil {
			collisions = multierror.Append(collisions, err)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if collisions != nil {
		return derrors.ValidationError("page path collisions").WithCause(collisions).Build()
	}
	return nil
}
