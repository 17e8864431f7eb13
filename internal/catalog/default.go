package catalog

import "jamservices/internal/models"

// DefaultTimeSlots are offered for every date.
var DefaultTimeSlots = []string{
	"09:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"02:00 PM", "03:00 PM", "04:00 PM", "05:00 PM",
}

// Default returns the built-in catalog used when no catalog file is configured.
func Default() *Catalog {
	return New([]models.Service{
		{
			ID:              "salon",
			Name:            "Salon Services",
			Description:     "Professional haircuts, styling, facials, and beauty treatments at your doorstep",
			PriceRangeLabel: "₹299 - ₹1999",
			Icon:            "💇‍♀️",
			Subcategories: []models.Subcategory{
				{ID: "haircut", Name: "Haircut & Styling", Price: 599, PlatformFee: 29},
				{ID: "facial", Name: "Facial & Cleanup", Price: 899, PlatformFee: 29},
				{ID: "manicure", Name: "Manicure & Pedicure", Price: 799, PlatformFee: 29},
				{ID: "haircolor", Name: "Hair Color & Treatment", Price: 1299, PlatformFee: 29},
			},
		},
		{
			ID:              "cleaning",
			Name:            "Home Cleaning",
			Description:     "Deep cleaning, regular maintenance, and specialized cleaning services",
			PriceRangeLabel: "₹199 - ₹899",
			Icon:            "🧹",
			Subcategories: []models.Subcategory{
				{ID: "deep", Name: "Deep Cleaning", Price: 699, PlatformFee: 29},
				{ID: "regular", Name: "Regular Cleaning", Price: 399, PlatformFee: 29},
				{ID: "carpet", Name: "Carpet Cleaning", Price: 499, PlatformFee: 29},
				{ID: "kitchen", Name: "Kitchen Deep Clean", Price: 599, PlatformFee: 29},
			},
		},
		{
			ID:              "repair",
			Name:            "Appliance Repair",
			Description:     "Expert repair services for all your home appliances and electronics",
			PriceRangeLabel: "₹149 - ₹799",
			Icon:            "🔧",
			Subcategories: []models.Subcategory{
				{ID: "ac", Name: "AC Repair", Price: 399, PlatformFee: 29},
				{ID: "washing", Name: "Washing Machine", Price: 299, PlatformFee: 29},
				{ID: "fridge", Name: "Refrigerator", Price: 499, PlatformFee: 29},
				{ID: "microwave", Name: "Microwave Repair", Price: 249, PlatformFee: 29},
			},
		},
	}, DefaultTimeSlots)
}
