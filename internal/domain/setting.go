package domain

import "time"

const SettingLogo = "logo"

type Setting struct {
	Key       string    `gorm:"primaryKey;size:64" bson:"key" json:"key"`
	Value     string    `gorm:"type:text;not null" bson:"value" json:"value"`
	MimeType  string    `gorm:"size:64;not null" bson:"mime_type" json:"mimeType"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

func (Setting) TableName() string { return "settings" }

// DataURL renders the setting as a data: URL.
func (s *Setting) DataURL() string {
	return "data:" + s.MimeType + ";base64," + s.Value
}
