package model

type ContentType string

const (
	ContentVideo ContentType = "video"
	ContentText  ContentType = "text"
	ContentPDF   ContentType = "pdf"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentVideo, ContentText, ContentPDF:
		return true
	}
	return false
}

// swagger:model Content
type Content struct {
	BaseModel
	Title       string      `gorm:"size:200;not null" json:"title"`
	ContentType ContentType `gorm:"size:50;not null" json:"contentType"`
	ContentURL  string      `gorm:"size:500" json:"contentUrl"`
	ContentText string      `gorm:"type:text" json:"contentText"`
	Duration    float64     `gorm:"default:0" json:"duration"` // 视频时长（秒）
	Order       int         `gorm:"not null" json:"order"`
	ModuleID    uint        `gorm:"index;not null" json:"moduleId"`
}

func (Content) TableName() string {
	return "contents"
}
