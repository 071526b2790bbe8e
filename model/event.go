package model

import "time"

type Event struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Date        time.Time  `json:"date"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Location    string     `json:"location"`
	Organizer   *Author    `json:"organizer"`
	Attendees   int        `json:"attendees"`
	Category    string     `json:"category"`
	Price       string     `json:"price,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Featured    bool       `json:"featured,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
