package domain

import "time"

// Blog is a published article.
type Blog struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Category   string    `json:"category"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	ThumbImage string    `json:"thumbImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BlogPage is one page of the blog listing.
type BlogPage struct {
	Blogs    []Blog   `json:"data"`
	Paginate Paginate `json:"paginate"`
}

// Category is a blog category.
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"blogCategoryName"`
}
