package models

// CarouselItem is a slide of the home-page carousel.
type CarouselItem struct {
	Image    string `json:"image"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	URL      string `json:"url"`
}

// GridItem is a governance/risk/compliance tile linking to a list screen.
type GridItem struct {
	Title    string `json:"title"`
	Icon     string `json:"icon"`
	Image    string `json:"image,omitempty"`
	Category string `json:"category"`
	Route    string `json:"route"`
}

// CustomerItem is an entry of the horizontally scrolling customer strip.
type CustomerItem struct {
	Source string `json:"source"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

// HomeBundle is everything the home screen renders for one country.
type HomeBundle struct {
	Carousel    []CarouselItem `json:"carousel"`
	GRCContent  []GridItem     `json:"grcContent"`
	CustomerARR []CustomerItem `json:"customerARR"`
}

// ListItem is a row of a governance/risk/compliance list.
type ListItem struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Setting is a board action toggle on the settings screen.
type Setting struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	IsEnabled bool   `json:"isEnabled"`
}
