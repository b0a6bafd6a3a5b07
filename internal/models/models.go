package models

import "time"

type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Sentiment string    `json:"sentiment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Account struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	PasswordDigest string `json:"-"`
}
