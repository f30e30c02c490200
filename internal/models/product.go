package models

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PlaceholderImage = "https://via.placeholder.com/300x200.png?text=Saheli+Product"

// Product representa un producto del catálogo
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID   string             `json:"productId" bson:"product_id"`
	Title       string             `json:"title" bson:"title"`
	Category    string             `json:"category" bson:"category"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Stock       int                `json:"stock" bson:"stock"`
	Discount    float64            `json:"discount" bson:"discount"`
	Rating      float64            `json:"rating" bson:"rating"`
	Recommended bool               `json:"recommended" bson:"recommended"`
	BestSeller  bool               `json:"bestSeller" bson:"best_seller"`
	Image       string             `json:"image" bson:"image"`
	IsActive    bool               `json:"isActive" bson:"is_active"`
	Views       int64              `json:"views" bson:"views"`
	SoldCount   int64              `json:"soldCount" bson:"sold_count"`
	AddedAt     time.Time          `json:"addedAt" bson:"added_at"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`

	// FinalPrice se recalcula en cada lectura, nunca se persiste.
	FinalPrice float64 `json:"finalPrice" bson:"-"`
}

// CreateProductInput es el cuerpo aceptado al crear un producto. Price admite
// número JSON o string con separadores de miles ("1,299").
type CreateProductInput struct {
	Title       string      `json:"title"`
	Price       interface{} `json:"price"`
	Stock       *int        `json:"stock"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Recommended bool        `json:"recommended"`
	BestSeller  bool        `json:"bestSeller"`
	Discount    float64     `json:"discount"`
	Rating      float64     `json:"rating"`
}

// ProductUpdate representa los campos actualizables de un producto
type ProductUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Discount    *float64 `json:"discount,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Recommended *bool    `json:"recommended,omitempty"`
	BestSeller  *bool    `json:"bestSeller,omitempty"`
	Image       *string  `json:"image,omitempty"`
}

// ToggleableFlags son los únicos campos admitidos por el endpoint de toggle.
var ToggleableFlags = map[string]bool{
	"recommended": true,
	"bestSeller":  true,
}

// NewProductID genera el identificador compuesto tiempo+aleatorio.
func NewProductID() string {
	return fmt.Sprintf("PID-%d-%d", time.Now().UnixMilli(), 1000+rand.Intn(9000))
}

// ParsePrice acepta el precio como número o string, quitando separadores de miles.
func ParsePrice(v interface{}) (float64, error) {
	switch raw := v.(type) {
	case float64:
		return raw, nil
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
		price, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, NewValidationError("Please provide valid title & price")
		}
		return price, nil
	default:
		return 0, NewValidationError("Please provide valid title & price")
	}
}

func ClampDiscount(d float64) float64 { return clamp(d, 0, 100) }

func ClampRating(r float64) float64 { return clamp(r, 0, 5) }

func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}

// NewProduct valida el input de creación y aplica defaults y clamps.
func NewProduct(in CreateProductInput) (*Product, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.Price == nil {
		return nil, NewValidationError("Please provide valid title & price")
	}

	price, err := ParsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	if price < 0 {
		return nil, NewValidationError("Price cannot be negative")
	}

	stock := 10
	if in.Stock != nil && *in.Stock >= 0 {
		stock = *in.Stock
	}

	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		category = "uncategorized"
	}

	image := strings.TrimSpace(in.Image)
	if image == "" {
		image = PlaceholderImage
	}

	now := time.Now()
	p := &Product{
		ProductID:   NewProductID(),
		Title:       title,
		Category:    category,
		Description: strings.TrimSpace(in.Description),
		Price:       price,
		Stock:       stock,
		Discount:    ClampDiscount(in.Discount),
		Rating:      ClampRating(in.Rating),
		Recommended: in.Recommended,
		BestSeller:  in.BestSeller,
		Image:       image,
		IsActive:    stock > 0,
		AddedAt:     now,
	}
	p.Derive()
	return p, nil
}

// Normalize prepara un update parcial: clamps y categoría en minúsculas.
func (u *ProductUpdate) Normalize() {
	if u.Discount != nil {
		d := ClampDiscount(*u.Discount)
		u.Discount = &d
	}
	if u.Rating != nil {
		r := ClampRating(*u.Rating)
		u.Rating = &r
	}
	if u.Category != nil {
		c := strings.ToLower(strings.TrimSpace(*u.Category))
		u.Category = &c
	}
}

// Derive recalcula los campos derivados: finalPrice e isActive.
func (p *Product) Derive() {
	if p.Discount > 0 {
		discounted := p.Price - (p.Price*p.Discount)/100
		p.FinalPrice = math.Round(discounted*100) / 100
	} else {
		p.FinalPrice = p.Price
	}
	if p.Stock <= 0 {
		p.IsActive = false
	}
}

// ProductFilter son los parámetros de filtrado del listado.
type ProductFilter struct {
	Category    string
	Search      string
	MinPrice    *float64
	MaxPrice    *float64
	BestSeller  *bool
	Recommended *bool
}

// CacheKey serializa el filtro como clave del caché de consultas.
func (f ProductFilter) CacheKey() string {
	var b strings.Builder
	b.WriteString("products:cat=")
	b.WriteString(f.Category)
	b.WriteString("&search=")
	b.WriteString(f.Search)
	if f.MinPrice != nil {
		fmt.Fprintf(&b, "&min=%g", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		fmt.Fprintf(&b, "&max=%g", *f.MaxPrice)
	}
	if f.BestSeller != nil {
		fmt.Fprintf(&b, "&bestSeller=%t", *f.BestSeller)
	}
	if f.Recommended != nil {
		fmt.Fprintf(&b, "&recommended=%t", *f.Recommended)
	}
	return b.String()
}
