package ds

// Blog categories accepted by the content API
const (
	CategoryTechnology  = "Tecnología"
	CategoryDevelopment = "Desarrollo"
	CategoryInnovation  = "Innovación"
	CategoryBusiness    = "Negocios"
	CategoryTutorials   = "Tutoriales"
)

// BlogPost - blog article. Slug is derived from Title on every submit.
type BlogPost struct {
	Meta
	Title         string   `json:"title" binding:"required"`
	Slug          string   `json:"slug"`
	Excerpt       string   `json:"excerpt" binding:"required,max=300"`
	Content       string   `json:"content" binding:"required"`
	FeaturedImage string   `json:"featuredImage"`
	Category      string   `json:"category" binding:"required,oneof=Tecnología Desarrollo Innovación Negocios Tutoriales"`
	Tags          []string `json:"tags"`
	IsPublished   bool     `json:"isPublished"`
}
