package transport

// PostListingRequest carries the raw, unnormalised input for a new listing.
type PostListingRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}
