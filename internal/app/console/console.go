package console

import (
	"context"

	"admin/internal/app/apiclient"
	"admin/internal/app/ds"
	"admin/internal/app/form"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Console struct {
	Services       *Resource[ds.Service]
	Blog           *Resource[ds.BlogPost]
	Projects       *Resource[ds.Project]
	CorporatePlans *Resource[ds.CorporatePlan]
	Clients        *Resource[ds.Client]
}

// Stats are the dashboard counters.
type Stats struct {
	Services       int
	Blog           int
	Projects       int
	CorporatePlans int
	Clients        int
}

// New builds the five resource pages on top of one API client.
func New(c *apiclient.Client, assets form.Assets) *Console {
	return &Console{
		Services:       NewResource(form.Services, apiclient.NewResource[ds.Service](c, form.Services.Resource), assets),
		Blog:           NewResource(form.BlogPosts, apiclient.NewResource[ds.BlogPost](c, form.BlogPosts.Resource), assets),
		Projects:       NewResource(form.Projects, apiclient.NewResource[ds.Project](c, form.Projects.Resource), assets),
		CorporatePlans: NewResource(form.CorporatePlans, apiclient.NewResource[ds.CorporatePlan](c, form.CorporatePlans.Resource), assets),
		Clients: NewResource(form.Clients, apiclient.NewMultipartResource[ds.Client](
			c, form.Clients.Resource, form.Clients.Asset.Name, form.Clients.Fields,
		), assets),
	}
}

// Mount loads every list concurrently. Each failure is logged by its store;
// the first one is returned.
func (c *Console) Mount(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.Services.Mount(ctx) })
	g.Go(func() error { return c.Blog.Mount(ctx) })
	g.Go(func() error { return c.Projects.Mount(ctx) })
	g.Go(func() error { return c.CorporatePlans.Mount(ctx) })
	g.Go(func() error { return c.Clients.Mount(ctx) })
	return g.Wait()
}

// Stats counts all five resources concurrently. Any failure fails the whole
// call.
func (c *Console) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int, counter func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := counter(ctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count(&s.Services, c.Services.Count)
	count(&s.Blog, c.Blog.Count)
	count(&s.Projects, c.Projects.Count)
	count(&s.CorporatePlans, c.CorporatePlans.Count)
	count(&s.Clients, c.Clients.Count)

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("error loading dashboard stats")
		return Stats{}, err
	}
	return s, nil
}
