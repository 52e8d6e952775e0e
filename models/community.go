package models

import "time"

// CommunityPost is a look shared on the global feed
type CommunityPost struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	ImageURL  string    `json:"imageUrl" bson:"imageUrl"`
	Author    string    `json:"author" bson:"author"`
	Likes     int       `json:"likes" bson:"likes"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
