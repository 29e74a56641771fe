package cost

// Category is one of the closed set of expense classifications.
// Costs carrying any other value are rejected at creation.
type Category string

const (
	Food      Category = "food"
	Health    Category = "health"
	Housing   Category = "housing"
	Sport     Category = "sport"
	Education Category = "education"
)

// Categories lists the closed category set in report order.
var Categories = []Category{Food, Health, Housing, Sport, Education}

// ParseCategory maps a raw string onto the closed set.
func ParseCategory(raw string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == raw {
			return c, true
		}
	}
	return "", false
}
