package models

import "time"

type Project struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Image     *string   `json:"-" db:"image"`
	Video     *string   `json:"-" db:"video"`
	ImageURL  *string   `json:"image"`
	VideoURL  *string   `json:"video"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
