package httpserver

import (
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/state"
	"github.com/Skotchmaster/storefront/internal/store"
)

type productView struct {
	ID          int64          `json:"id"`
	Name        string         `json:"productName"`
	Brand       string         `json:"brand"`
	Size        string         `json:"size"`
	Color       string         `json:"color"`
	Price       string         `json:"price"`
	Description string         `json:"description"`
	LaunchDate  string         `json:"launchDate"`
	IsActive    bool           `json:"isActive"`
	Image       string         `json:"image,omitempty"`
	Images      []models.Image `json:"images,omitempty"`
}

func toProductView(p models.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Size:        p.Size,
		Color:       p.Color,
		Price:       p.Price.StringFixed(2),
		Description: p.Description,
		LaunchDate:  p.LaunchDate,
		IsActive:    p.IsActive,
		Image:       primaryImage(p.Images),
		Images:      p.Images,
	}
}

// primaryImage picks the image flagged primary, else the first one.
func primaryImage(images []models.Image) string {
	for _, img := range images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(images) > 0 {
		return images[0].URL
	}
	return ""
}

type catalogView struct {
	Products      []productView `json:"products"`
	Selected      *productView  `json:"singleProduct,omitempty"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalPages    int           `json:"totalPages"`
	TotalElements int64         `json:"totalElements"`
	Status        state.Status  `json:"status"`
	Error         string        `json:"error,omitempty"`
}

// toCatalogView turns the zero-based page index into the one-based number
// shown to users.
func toCatalogView(s catalog.Snapshot) catalogView {
	v := catalogView{
		Products:      make([]productView, 0, len(s.Products)),
		Page:          s.Page + 1,
		Size:          s.Size,
		TotalPages:    s.TotalPages,
		TotalElements: s.TotalElements,
		Status:        s.Status,
		Error:         s.Error,
	}
	for _, p := range s.Products {
		v.Products = append(v.Products, toProductView(p))
	}
	if s.Selected != nil {
		p := toProductView(*s.Selected)
		v.Selected = &p
	}
	return v
}

type cartItemView struct {
	ID        int64       `json:"id"`
	Product   productView `json:"product"`
	Quantity  int         `json:"quantity"`
	LineTotal string      `json:"lineTotal"`
}

type cartView struct {
	Items      []cartItemView `json:"items"`
	TotalPrice string         `json:"totalPrice"`
	TotalItems int            `json:"totalItems"`
	Status     state.Status   `json:"status"`
	Error      string         `json:"error,omitempty"`
}

func toCartView(s cart.Snapshot) cartView {
	v := cartView{
		Items:      make([]cartItemView, 0, len(s.Items)),
		TotalPrice: s.TotalPrice.StringFixed(2),
		TotalItems: s.TotalItems,
		Status:     s.Status,
		Error:      s.Error,
	}
	for _, it := range s.Items {
		line := it.Product.Price.Mul(decimalFromInt(it.Quantity))
		v.Items = append(v.Items, cartItemView{
			ID:        it.ID,
			Product:   toProductView(it.Product),
			Quantity:  it.Quantity,
			LineTotal: line.StringFixed(2),
		})
	}
	return v
}

type stateView struct {
	Auth     session.Snapshot `json:"auth"`
	Products catalogView      `json:"products"`
	Cart     cartView         `json:"cart"`
}

func toStateView(s store.Snapshot) stateView {
	return stateView{
		Auth:     s.Auth,
		Products: toCatalogView(s.Products),
		Cart:     toCartView(s.Cart),
	}
}
