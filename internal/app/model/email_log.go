package model

import (
	"time"

	"github.com/lib/pq"
)

type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

// EmailLog records every outbound notification attempt. Delivery is
// best-effort; the log is the only durable trace of a failed send.
type EmailLog struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Recipients pq.StringArray `gorm:"type:text[]" json:"recipients"`
	Subject    string         `gorm:"not null" json:"subject"`
	Status     EmailStatus    `gorm:"type:varchar(10)" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (EmailLog) TableName() string {
	return "email_logs"
}
