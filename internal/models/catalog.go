package models

// Service is a bookable category shown on the services page.
type Service struct {
	ID              string        `yaml:"id" json:"id"`
	Name            string        `yaml:"name" json:"name"`
	Description     string        `yaml:"description" json:"description"`
	PriceRangeLabel string        `yaml:"price_range" json:"price_range"`
	Icon            string        `yaml:"icon" json:"icon,omitempty"`
	Subcategories   []Subcategory `yaml:"subcategories" json:"subcategories"`
}

// Subcategory is an offering inside a service. Amounts are whole rupees.
type Subcategory struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Price       int64  `yaml:"price" json:"price"`
	PlatformFee int64  `yaml:"platform_fee" json:"platform_fee"`
}

// FindSubcategory looks a subcategory up by id within this service only.
func (s Service) FindSubcategory(id string) (Subcategory, bool) {
	for _, sub := range s.Subcategories {
		if sub.ID == id {
			return sub, true
		}
	}
	return Subcategory{}, false
}
