package ds

// Project categories accepted by the content API
const (
	CategoryWebDevelopment = "Desarrollo Web"
	CategoryMobileApp      = "App Móvil"
	CategoryConsulting     = "Consultoría"
	CategoryInfrastructure = "Infraestructura"
)

// Project - portfolio entry
type Project struct {
	Meta
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	FeaturedImage string   `json:"featuredImage"`
	Images        []string `json:"images"`
	Client        string   `json:"client"`
	Category      string   `json:"category" binding:"required,oneof='Desarrollo Web' 'App Móvil' Consultoría Infraestructura"`
	Technologies  []string `json:"technologies"`
	Featured      bool     `json:"featured"`
	CompletedDate string   `json:"completedDate,omitempty"` // YYYY-MM-DD in the form, ISO timestamp from the API
	ProjectURL    string   `json:"projectUrl"`
	IsActive      bool     `json:"isActive"`
}
