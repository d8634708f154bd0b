package models

// Menu adalah snapshot item menu dari menu service. Field harga dan promosi
// dihitung di backend; client hanya menampilkan.
type Menu struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageUrl    string   `json:"imageUrl"`
	CategoryID  uint     `json:"categoryId"`
	Status      string   `json:"status"`
	Available   bool     `json:"available"`
	IsPopular   bool     `json:"isPopular,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
}

type MenuCategory struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

// PagedResponse membungkus hasil list dengan informasi paging dari backend.
type PagedResponse[T any] struct {
	Content       []T  `json:"content"`
	Page          int  `json:"page"`
	Size          int  `json:"size"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Last          bool `json:"last"`
}
