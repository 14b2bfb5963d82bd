package form

import (
	"strconv"
	"strings"

	"admin/internal/app/ds"
	"admin/internal/app/slug"
)

var Services = &Descriptor[ds.Service]{
	Resource: "services",
	Noun:     "service",
	Defaults: func() ds.Service {
		return ds.Service{Icon: "code", IsActive: true}
	},
	Meta: func(s *ds.Service) *ds.Meta { return &s.Meta },
	Lists: []ListField[ds.Service]{
		{Name: "features", Slots: func(s *ds.Service) *[]string { return &s.Features }},
	},
	Hydrate: func(s *ds.Service) {
		if s.Icon == "" {
			s.Icon = "code"
		}
	},
}

var BlogPosts = &Descriptor[ds.BlogPost]{
	Resource: "blog",
	Noun:     "article",
	Defaults: func() ds.BlogPost {
		return ds.BlogPost{Category: ds.CategoryTechnology}
	},
	Meta: func(p *ds.BlogPost) *ds.Meta { return &p.Meta },
	Lists: []ListField[ds.BlogPost]{
		{Name: "tags", Slots: func(p *ds.BlogPost) *[]string { return &p.Tags }},
	},
	// slug always follows the title, even when editing a published post
	Normalize: func(p *ds.BlogPost) {
		p.Slug = slug.Make(p.Title)
	},
}

var Projects = &Descriptor[ds.Project]{
	Resource: "projects",
	Noun:     "project",
	Defaults: func() ds.Project {
		return ds.Project{Category: ds.CategoryWebDevelopment, IsActive: true}
	},
	Meta: func(p *ds.Project) *ds.Meta { return &p.Meta },
	Lists: []ListField[ds.Project]{
		{Name: "images", Slots: func(p *ds.Project) *[]string { return &p.Images }},
		{Name: "technologies", Slots: func(p *ds.Project) *[]string { return &p.Technologies }},
	},
	Hydrate: func(p *ds.Project) {
		// date input wants YYYY-MM-DD
		if date, _, found := strings.Cut(p.CompletedDate, "T"); found {
			p.CompletedDate = date
		}
	},
}

var CorporatePlans = &Descriptor[ds.CorporatePlan]{
	Resource: "corporate-plans",
	Noun:     "plan",
	Defaults: func() ds.CorporatePlan {
		return ds.CorporatePlan{
			Currency:      ds.CurrencyUSD,
			BillingPeriod: ds.BillingMonthly,
			IsActive:      true,
			Support:       ds.SupportBasic,
		}
	},
	Meta: func(p *ds.CorporatePlan) *ds.Meta { return &p.Meta },
	Lists: []ListField[ds.CorporatePlan]{
		{Name: "features", Slots: func(p *ds.CorporatePlan) *[]string { return &p.Features }},
	},
}

var Clients = &Descriptor[ds.Client]{
	Resource: "clients",
	Noun:     "client",
	Defaults: func() ds.Client {
		return ds.Client{IsActive: true}
	},
	Meta: func(c *ds.Client) *ds.Meta { return &c.Meta },
	Fields: func(c ds.Client) map[string]string {
		return map[string]string{
			"name":     c.Name,
			"isActive": strconv.FormatBool(c.IsActive),
			"order":    strconv.Itoa(c.Order),
		}
	},
	Asset: &AssetField[ds.Client]{
		Name:             "logo",
		RequiredOnCreate: true,
		StoredPath:       func(c ds.Client) string { return c.Logo },
	},
}

// Resources lists the content API collection behind every descriptor, in
// dashboard order.
func Resources() []string {
	return []string{
		Services.Resource,
		BlogPosts.Resource,
		Projects.Resource,
		CorporatePlans.Resource,
		Clients.Resource,
	}
}
