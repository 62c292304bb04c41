package models

import "time"

type UserProfile struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	FullName       *string   `json:"full_name"`
	AvatarURL      *string   `json:"avatar_url"`
	Bio            *string   `json:"bio"`
	University     *string   `json:"university"`
	FieldOfStudy   *string   `json:"field_of_study"`
	GraduationYear *int      `json:"graduation_year"`
	Skills         *[]string `json:"skills"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
