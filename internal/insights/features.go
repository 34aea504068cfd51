package insights

// Feature is a landing page card.
type Feature struct {
	Title       string
	Description string
	Link        string
	ButtonText  string
}

// Features lists what the landing page advertises.
func Features() []Feature {
	return []Feature{
		{
			Title:       "Predict Future Engagement",
			Description: "Our models provide predictions for page views, edits, talk page activity, and more.",
			Link:        "/predict",
			ButtonText:  "Try Now",
		},
		{
			Title:       "Trending Articles",
			Description: "Stay updated with the latest trending articles on Wikipedia.",
			Link:        "/home",
			ButtonText:  "Explore",
		},
		{
			Title:       "On This Day",
			Description: "Discover historical events and birthdays with our 'On This Day' feature.",
			Link:        "/home",
			ButtonText:  "Explore",
		},
		{
			Title:       "Compare Articles",
			Description: "Compare engagement metrics between different Wikipedia articles.",
			Link:        "/compare",
			ButtonText:  "Explore",
		},
	}
}
