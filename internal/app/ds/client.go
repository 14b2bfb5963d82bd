package ds

// Client - customer logo shown on the public site.
// Logo is the relative path of the stored asset, e.g. /uploads/clients/acme.png
type Client struct {
	Meta
	Name     string `json:"name" binding:"required"`
	Logo     string `json:"logo,omitempty"`
	IsActive bool   `json:"isActive"`
	Order    int    `json:"order" binding:"gte=0"`
}
