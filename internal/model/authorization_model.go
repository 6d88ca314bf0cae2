package model

import "time"

// Authorization is a registered accessKey/clientId pairing. The table name
// is configurable, so the model carries no TableName override; repositories
// scope queries with db.Table(...) instead.
type Authorization struct {
	AccessKey string    `gorm:"primaryKey;type:varchar(255);column:access_key"`
	ClientID  string    `gorm:"primaryKey;type:varchar(255);column:client_id"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
