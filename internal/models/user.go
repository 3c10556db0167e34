package models

import "time"

type User struct {
	ID                   string
	Email                string
	Name                 string
	Password             string
	Timezone             string
	NotificationsEnabled bool
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
