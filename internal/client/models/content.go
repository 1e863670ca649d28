package models

// Post is a published article on the portal.
type Post struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Recipe is a cooking recipe entry. Times are minutes.
type Recipe struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PrepTime    int    `json:"prepTime"`
	CookTime    int    `json:"cookTime"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Note is a personal note.
type Note struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
