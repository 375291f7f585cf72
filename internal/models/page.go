package models

// PostPage is one rendered window of a feed.
type PostPage struct {
	Items      []*Post `json:"posts"`
	Page       int     `json:"page"`
	TotalItems int64   `json:"total_items"`
	TotalPages int     `json:"total_pages"`
	HasNext    bool    `json:"has_next"`
	HasPrev    bool    `json:"has_prev"`
}
