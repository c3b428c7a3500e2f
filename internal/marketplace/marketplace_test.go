package marketplace

import (
	"testing"

	"github.com/hyperjump/studentgear/internal/models"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(map[string]models.AffiliateLinks{
		"Casio FX-991CW": {Amazon: "https://amzn.to/override"},
	})

	tests := []struct {
		name         string
		product      *models.Product
		wantAmazon   Link
		wantFlipkart Link
	}{
		{
			name:         "search fallback",
			product:      &models.Product{Name: "Survey Tripod"},
			wantAmazon:   Link{URL: "https://www.amazon.in/s?k=Survey%20Tripod", Source: SourceSearch},
			wantFlipkart: Link{URL: "https://www.flipkart.com/search?q=Survey%20Tripod", Source: SourceSearch},
		},
		{
			name: "product links win",
			product: &models.Product{Name: "Casio FX-991CW",
				Affiliates: models.AffiliateLinks{Amazon: "https://amzn.to/3Xf9YAN"}},
			wantAmazon:   Link{URL: "https://amzn.to/3Xf9YAN", Source: SourceProduct},
			wantFlipkart: Link{URL: "https://www.flipkart.com/search?q=Casio%20FX-991CW", Source: SourceSearch},
		},
		{
			name:         "override case-insensitive",
			product:      &models.Product{Name: "casio fx-991cw"},
			wantAmazon:   Link{URL: "https://amzn.to/override", Source: SourceOverride},
			wantFlipkart: Link{URL: "https://www.flipkart.com/search?q=casio%20fx-991cw", Source: SourceSearch},
		},
		{
			name:         "escapes reserved characters",
			product:      &models.Product{Name: `External Monitor 24" & Stand`},
			wantAmazon:   Link{URL: "https://www.amazon.in/s?k=External%20Monitor%2024%22%20%26%20Stand", Source: SourceSearch},
			wantFlipkart: Link{URL: "https://www.flipkart.com/search?q=External%20Monitor%2024%22%20%26%20Stand", Source: SourceSearch},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.product)
			if got.Amazon != tt.wantAmazon {
				t.Errorf("Amazon = %+v, want %+v", got.Amazon, tt.wantAmazon)
			}
			if got.Flipkart != tt.wantFlipkart {
				t.Errorf("Flipkart = %+v, want %+v", got.Flipkart, tt.wantFlipkart)
			}
			if got.Product != tt.product.Name {
				t.Errorf("Product = %q", got.Product)
			}
		})
	}
}

func TestResolver_Register(t *testing.T) {
	r := NewResolver(nil)
	if _, ok := r.Override("hub"); ok {
		t.Fatal("unexpected override")
	}
	r.Register("  USB-C Hub ", models.AffiliateLinks{Flipkart: "https://fk/hub"})
	l, ok := r.Override("usb-c hub")
	if !ok || l.Flipkart != "https://fk/hub" {
		t.Errorf("Override = %+v, %v", l, ok)
	}
}
