// audit/model.go
package audit

import "time"

type LoginStatus string

const (
	LoginSuccess    LoginStatus = "SUCCESS"
	LoginFailed     LoginStatus = "FAILED"
	LoginMFAPending LoginStatus = "MFA_PENDING"
)

// LoginRecord is one authentication attempt, successful or not.
type LoginRecord struct {
	ID        int         `gorm:"primaryKey" json:"id"`
	UserID    int         `gorm:"column:user_id;index" json:"user_id"`
	IPAddress string      `gorm:"column:ip_address" json:"ip_address"`
	UserAgent string      `gorm:"column:user_agent" json:"user_agent"`
	Status    LoginStatus `gorm:"type:varchar(16)" json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

func (LoginRecord) TableName() string {
	return "login_history"
}
