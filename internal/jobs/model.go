package jobs

// Listing is one internship posting found through search. A listing whose
// page could not be fetched keeps its URL, carries ErrorTitle and the
// failure message as its description.
type Listing struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

const (
	DefaultQuery  = "Software Engineering Internships"
	NoTitle       = "No Title Found"
	NoDescription = "No description available."
	ErrorTitle    = "Error Fetching"
)

// Degraded reports whether the listing records a fetch failure.
func (l Listing) Degraded() bool {
	return l.Title == ErrorTitle
}
