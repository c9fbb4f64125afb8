package domain

import (
	"fmt"
	"strings"
	"time"
)

type Category struct {
	ID          int64         `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description,omitempty"`
	ImageURL    string        `json:"image,omitempty"`
	SortOrder   int           `json:"sortOrder"`
	IsActive    bool          `json:"isActive"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (c *Category) Validate() error {
	v := &ValidationError{}
	c.Name.validate("name", true, v)
	c.Description.validate("description", false, v)
	return v.Err()
}

type SizeOption struct {
	Name            string  `json:"name"`
	AdditionalPrice float64 `json:"additionalPrice"`
}

type Extra struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Addon struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

type Ingredient struct {
	Name     string `json:"name"`
	Optional bool   `json:"optional"`
}

type FoodItem struct {
	ID                int64         `json:"id"`
	Name              LocalizedText `json:"name"`
	Description       LocalizedText `json:"description,omitempty"`
	Price             float64       `json:"price"`
	OriginalPrice     *float64      `json:"originalPrice,omitempty"`
	CategoryID        int64         `json:"categoryId"`
	ImageURL          string        `json:"image,omitempty"`
	Sizes             []SizeOption  `json:"mealSizes"`
	Extras            []Extra       `json:"extras"`
	Addons            []Addon       `json:"addons"`
	Ingredients       []Ingredient  `json:"ingredients"`
	StockQuantity     int           `json:"stockQuantity"`
	LowStockThreshold int           `json:"lowStockThreshold"`
	TotalSold         int           `json:"totalSold"`
	IsActive          bool          `json:"isActive"`
	IsAvailable       bool          `json:"isAvailable"`
	AvailableFrom     string        `json:"availableFrom,omitempty"`
	AvailableUntil    string        `json:"availableUntil,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

const clockLayout = "15:04"

func (f *FoodItem) Validate() error {
	v := &ValidationError{}
	f.Name.validate("name", true, v)
	f.Description.validate("description", false, v)
	if f.Price < 0 {
		v.Add("price", "must not be negative")
	}
	if f.OriginalPrice != nil && *f.OriginalPrice < 0 {
		v.Add("originalPrice", "must not be negative")
	}
	if f.CategoryID <= 0 {
		v.Add("categoryId", "is required")
	}
	if f.StockQuantity < 0 {
		v.Add("stockQuantity", "must not be negative")
	}
	if f.LowStockThreshold < 0 {
		v.Add("lowStockThreshold", "must not be negative")
	}
	for i, s := range f.Sizes {
		if strings.TrimSpace(s.Name) == "" {
			v.Add(fmt.Sprintf("mealSizes[%d].name", i), "is required")
		}
		if s.AdditionalPrice < 0 {
			v.Add(fmt.Sprintf("mealSizes[%d].additionalPrice", i), "must not be negative")
		}
	}
	for i, e := range f.Extras {
		if strings.TrimSpace(e.Name) == "" || e.Price < 0 {
			v.Add(fmt.Sprintf("extras[%d]", i), "needs a name and a non-negative price")
		}
	}
	for i, a := range f.Addons {
		if strings.TrimSpace(a.Name) == "" || a.Price < 0 {
			v.Add(fmt.Sprintf("addons[%d]", i), "needs a name and a non-negative price")
		}
	}
	for _, w := range []struct{ field, value string }{
		{"availableFrom", f.AvailableFrom},
		{"availableUntil", f.AvailableUntil},
	} {
		if w.value == "" {
			continue
		}
		if _, err := time.Parse(clockLayout, w.value); err != nil {
			v.Add(w.field, "must be HH:MM")
		}
	}
	return v.Err()
}

// Orderable reports whether the item can be put into a new order at now.
func (f *FoodItem) Orderable(now time.Time) bool {
	return f.IsActive && f.IsAvailable && f.inWindow(now)
}

// inWindow treats availableFrom/availableUntil as a daily time-of-day range.
// A range whose end is before its start wraps past midnight.
func (f *FoodItem) inWindow(now time.Time) bool {
	if f.AvailableFrom == "" && f.AvailableUntil == "" {
		return true
	}
	minutes := now.Hour()*60 + now.Minute()
	from, until := 0, 24*60
	if t, err := time.Parse(clockLayout, f.AvailableFrom); err == nil {
		from = t.Hour()*60 + t.Minute()
	}
	if t, err := time.Parse(clockLayout, f.AvailableUntil); err == nil {
		until = t.Hour()*60 + t.Minute()
	}
	if from <= until {
		return minutes >= from && minutes < until
	}
	return minutes >= from || minutes < until
}

func (f *FoodItem) IsLowStock() bool {
	return f.StockQuantity <= f.LowStockThreshold
}

func (f *FoodItem) FindSize(name string) (SizeOption, bool) {
	for _, s := range f.Sizes {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return SizeOption{}, false
}

func (f *FoodItem) FindExtra(name string) (Extra, bool) {
	for _, e := range f.Extras {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Extra{}, false
}

func (f *FoodItem) FindAddon(name string) (Addon, bool) {
	for _, a := range f.Addons {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Addon{}, false
}

type ItemFilter struct {
	CategoryID    int64
	AvailableOnly bool
	IncludeHidden bool
	Search        string
	Page          Page
}

// CategoryView and FoodItemView are the single-language read models.
type CategoryView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image,omitempty"`
	SortOrder   int    `json:"sortOrder"`
	IsActive    bool   `json:"isActive"`
}

func (c *Category) Localize(lang string) CategoryView {
	return CategoryView{
		ID:          c.ID,
		Name:        c.Name.Resolve(lang),
		Description: c.Description.Resolve(lang),
		ImageURL:    c.ImageURL,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
	}
}

type FoodItemView struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	Price          float64      `json:"price"`
	OriginalPrice  *float64     `json:"originalPrice,omitempty"`
	CategoryID     int64        `json:"categoryId"`
	ImageURL       string       `json:"image,omitempty"`
	Sizes          []SizeOption `json:"mealSizes"`
	Extras         []Extra      `json:"extras"`
	Addons         []Addon      `json:"addons"`
	Ingredients    []Ingredient `json:"ingredients"`
	StockQuantity  int          `json:"stockQuantity"`
	TotalSold      int          `json:"totalSold"`
	IsAvailable    bool         `json:"isAvailable"`
	AvailableFrom  string       `json:"availableFrom,omitempty"`
	AvailableUntil string       `json:"availableUntil,omitempty"`
}

func (f *FoodItem) Localize(lang string) FoodItemView {
	return FoodItemView{
		ID:             f.ID,
		Name:           f.Name.Resolve(lang),
		Description:    f.Description.Resolve(lang),
		Price:          f.Price,
		OriginalPrice:  f.OriginalPrice,
		CategoryID:     f.CategoryID,
		ImageURL:       f.ImageURL,
		Sizes:          f.Sizes,
		Extras:         f.Extras,
		Addons:         f.Addons,
		Ingredients:    f.Ingredients,
		StockQuantity:  f.StockQuantity,
		TotalSold:      f.TotalSold,
		IsAvailable:    f.IsActive && f.IsAvailable,
		AvailableFrom:  f.AvailableFrom,
		AvailableUntil: f.AvailableUntil,
	}
}
