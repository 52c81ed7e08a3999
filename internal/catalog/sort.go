package catalog

// SortFor maps a presentation preset to the API sort string.
func SortFor(preset string) string {
	switch preset {
	case "newest":
		return "launchDate,desc"
	case "price-asc":
		return "price,asc"
	case "price-desc":
		return "price,desc"
	case "name-asc":
		return "productName,asc"
	default:
		return "id,desc"
	}
}
