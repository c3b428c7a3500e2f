package ranking

import "github.com/hyperjump/studentgear/internal/models"

func testCatalog() []*models.Product {
	return []*models.Product{
		{
			Name:        "Mechanical Keyboard",
			Aliases:     []string{"keyboard", "mechanical keyboard"},
			Description: "Tactile mechanical keyboard for fast typing.",
			Badge:       "Accessory",
			Price:       3799,
			Affiliates:  models.AffiliateLinks{Amazon: "https://amzn.to/3XiWIuU"},
		},
		{Name: "Keyboard Stand", Badge: "Accessory", Price: 999},
		{
			Name:        "Raspberry Pi 4 Kit",
			Aliases:     []string{"raspberry pi", "pi kit"},
			Description: "Complete Raspberry Pi kit for projects.",
			Badge:       "Kit",
			Price:       5999,
		},
		{
			Name:        "Student Developer Laptop",
			Aliases:     []string{"laptop", "developer laptop"},
			Description: "Lightweight laptop for coding and projects.",
			Badge:       "Laptop",
			Category:    "Laptops",
			Price:       54999,
		},
		{Name: "Acer Aspire 5", Description: "Affordable Aspire for students.", Badge: "Laptop", Category: "Laptops", Price: 34999},
		{Name: "Lenovo IdeaPad 3", Description: "IdeaPad for budget-conscious students.", Badge: "Laptop", Category: "Laptops", Price: 32999},
		{
			Name:        "Laptop Cooling Pad",
			Aliases:     []string{"cooling pad"},
			Description: "Keep your laptop cool under load.",
			Badge:       "Accessory",
			Price:       799,
		},
		{Name: "Oscilloscope Mini", Aliases: []string{"oscilloscope", "scope"}, Description: "Digital oscilloscope for labs.", Badge: "Instrument", Price: 8999},
		{Name: "Dell XPS 13", Description: "XPS - compact premium ultrabook.", Badge: "Laptop", Category: "Laptops", Price: 129999},
		{Name: "Multimeter", Description: "Digital multimeter for measurement.", Badge: "Tool", Price: 1999},
	}
}

func names(products []*models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func indexOf(products []*models.Product, name string) int {
	for i, p := range products {
		if p.Name == name {
			return i
		}
	}
	return -1
}
