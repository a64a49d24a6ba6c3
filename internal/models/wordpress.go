package models

// PostToWordPressRequest is the body of /api/post-to-wordpress
type PostToWordPressRequest struct {
	Title               string `json:"title" example:"猫の飼い方"`
	Content             string `json:"content" example:"# 見出し\n本文"`
	WordpressUsername   string `json:"wordpress_username" example:"editor"`
	ApplicationPassword string `json:"application_password" example:"abcd efgh ijkl mnop"`
	SiteURL             string `json:"siteurl" example:"https://example.com"`
	Status              string `json:"status" example:"draft"`
}

// PostToWordPressResponse wraps the WordPress REST API reply
type PostToWordPressResponse struct {
	Message string `json:"message" example:"Post created successfully"`
	Data    any    `json:"data"`
}
