// Package site holds the marketing-site tables that share the datastore with
// the loan workflow. Only the schema is managed here.
package site

import "time"

type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
)

type Blog struct {
	ID        uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string     `gorm:"column:title;size:255;not null"`
	Content   string     `gorm:"column:content;type:text;not null"`
	Image     string     `gorm:"column:image;type:text"`
	Status    BlogStatus `gorm:"column:status;size:16;not null;default:'published'"`
	CreatedBy *uint64    `gorm:"column:created_by;index"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt *time.Time `gorm:"column:updated_at"`

	Comments []Comment `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE"`
}

func (Blog) TableName() string { return "blogs" }

type Comment struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	BlogID    uint64    `gorm:"column:blog_id;not null;index"`
	UserID    uint64    `gorm:"column:user_id;not null;index"`
	Content   string    `gorm:"column:content;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Comment) TableName() string { return "comments" }

type ProductStatus string

const (
	ProductAvailable ProductStatus = "available"
	ProductSold      ProductStatus = "sold"
)

type Product struct {
	ID          uint64        `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string        `gorm:"column:name;size:255;not null"`
	Description string        `gorm:"column:description;type:text"`
	Price       float64       `gorm:"column:price;type:decimal(18,2)"`
	IsActive    bool          `gorm:"column:is_active;not null;default:true"`
	Status      ProductStatus `gorm:"column:status;size:16;not null;default:'available'"`
	OwnerID     *uint64       `gorm:"column:owner_id;index"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime"`

	Images    []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Inquiries []ProductInquiry `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string { return "products" }

// ProductImage replaces the comma-joined image column with one row per file.
type ProductImage struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint64    `gorm:"column:product_id;not null;index"`
	FilePath  string    `gorm:"column:file_path;type:text;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProductImage) TableName() string { return "product_images" }

type ProductInquiry struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint64    `gorm:"column:product_id;not null;index"`
	UserID    *uint64   `gorm:"column:user_id;index"`
	Phone     string    `gorm:"column:phone;size:64"`
	Message   string    `gorm:"column:message;type:text;not null"`
	BidPrice  *float64  `gorm:"column:bid_price;type:decimal(18,2)"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProductInquiry) TableName() string { return "product_inquiries" }

// Inquiry is a contact-form submission from the public site.
type Inquiry struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	FullName      string    `gorm:"column:full_name;size:255;not null"`
	CompanyName   string    `gorm:"column:company_name;size:255"`
	Email         string    `gorm:"column:email;size:255;not null;index"`
	Phone         string    `gorm:"column:phone;size:64"`
	WhatsApp      string    `gorm:"column:whatsapp;size:64"`
	InquiryTarget string    `gorm:"column:inquiry_target;size:64"`
	Service       string    `gorm:"column:service;size:128"`
	Subject       string    `gorm:"column:subject;size:255"`
	Reason        string    `gorm:"column:reason;size:255"`
	Message       string    `gorm:"column:message;type:text;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Inquiry) TableName() string { return "tukakula_queries" }

// Models lists every table in migration order.
func Models() []any {
	return []any{&Blog{}, &Comment{}, &Product{}, &ProductImage{}, &ProductInquiry{}, &Inquiry{}}
}
