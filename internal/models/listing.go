package models

import "time"

// Listing is a rental home offered on the site
type Listing struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Image       string `gorm:"type:text" json:"image"`
	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	// 宿泊条件
	Price  int `gorm:"type:int;not null" json:"price"`
	Guests int `gorm:"type:int;not null" json:"guests"`
	Beds   int `gorm:"type:int;not null" json:"beds"`
	Baths  int `gorm:"type:int;not null" json:"baths"`

	// タイムスタンプ
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index:idx_homes_created_at,sort:desc" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updatedAt"`
}

// TableName はテーブル名を明示的に指定
func (Listing) TableName() string {
	return "homes"
}
