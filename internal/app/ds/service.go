package ds

// Service - offered service card
type Service struct {
	Meta
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Icon        string   `json:"icon"`
	Image       string   `json:"image"`
	Features    []string `json:"features"`
	IsActive    bool     `json:"isActive"`
	Order       int      `json:"order"`
}
