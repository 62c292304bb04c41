package models

import "time"

type Event struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      *string   `json:"description"`
	Location         *string   `json:"location"`
	StartsAt         time.Time `json:"starts_at"`
	CreatedBy        int64     `json:"created_by"`
	ParticipantCount int       `json:"participant_count"`
	CreatedAt        time.Time `json:"created_at"`
}
