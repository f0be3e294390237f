package orders

import "github.com/diggibyte/lastmile-user/internal/models"

// Static catalog, pending a real product service.
var catalog = []models.Product{
	{Name: "Drill X100", Category: "Drilling", Price: "$1,200", InStock: true},
	{Name: "Loader L50", Category: "Loading", Price: "$18,500", InStock: false},
	{Name: "Compressor C20", Category: "Air", Price: "$4,300", InStock: true},
}

var recommendations = []models.Recommendation{
	{Name: "Rock Drill RD90", Category: "Drilling", Price: "$2,900", Rating: 4.6},
	{Name: "Ventilation Fan V10", Category: "Ventilation", Price: "$1,150", Rating: 4.3},
	{Name: "Support Bolt SB30", Category: "Support", Price: "$12", Rating: 4.8},
}

// Products returns the catalog with image filenames resolved.
func (s *Service) Products() []models.Product {
	out := make([]models.Product, len(catalog))
	copy(out, catalog)
	for i := range out {
		out[i].Image = s.ResolveProductImage(productID(out[i].Name))
	}
	return out
}

func (s *Service) Recommendations() []models.Recommendation {
	out := make([]models.Recommendation, len(recommendations))
	copy(out, recommendations)
	return out
}

// productID turns a display name into the identifier image files are
// named after: "Drill X100" -> "drill-x100".
func productID(name string) string {
	id := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			id = append(id, r+('a'-'A'))
		case r == ' ':
			id = append(id, '-')
		default:
			id = append(id, r)
		}
	}
	return string(id)
}
