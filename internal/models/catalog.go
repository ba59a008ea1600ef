package models

import "strings"

// Provider is a clinic physician listed on the doctors panel and in wizard step 2
type Provider struct {
	ID               int      `json:"id" yaml:"id"`
	Slug             string   `json:"slug" yaml:"slug"`
	Name             string   `json:"name" yaml:"name"`
	Specialty        string   `json:"specialty" yaml:"specialty"`
	ImageURL         string   `json:"imageUrl" yaml:"image_url"`
	Rating           float64  `json:"rating" yaml:"rating"`
	AvailabilityDays []string `json:"availabilityDays" yaml:"availability_days"`
}

// AvailabilityLabel renders the working days the way the doctors panel shows them
func (p *Provider) AvailabilityLabel() string {
	return strings.Join(p.AvailabilityDays, ", ")
}

// Service is a bookable clinic service
type Service struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Duration    string `json:"duration" yaml:"duration"`
	Price       string `json:"price" yaml:"price"`
}

// Article is a health blog post
type Article struct {
	ID        int    `json:"id" yaml:"id"`
	Slug      string `json:"slug" yaml:"slug"`
	Title     string `json:"title" yaml:"title"`
	Excerpt   string `json:"excerpt" yaml:"excerpt"`
	Content   string `json:"content,omitempty" yaml:"content"`
	ImageURL  string `json:"imageUrl" yaml:"image_url"`
	Published string `json:"published" yaml:"published"`
	Category  string `json:"category" yaml:"category"`
}

// OpeningHours is one row of the clinic schedule
type OpeningHours struct {
	Days  string `json:"days" yaml:"days"`
	Hours string `json:"hours" yaml:"hours"`
}

// ClinicInfo is the contact panel content
type ClinicInfo struct {
	Name    string         `json:"name" yaml:"name"`
	Address []string       `json:"address" yaml:"address"`
	Phone   string         `json:"phone" yaml:"phone"`
	Email   string         `json:"email" yaml:"email"`
	Hours   []OpeningHours `json:"hours" yaml:"hours"`
}

// Catalog is the full static content document
type Catalog struct {
	Clinic    ClinicInfo  `json:"clinic" yaml:"clinic"`
	Providers []*Provider `json:"providers" yaml:"providers"`
	Services  []*Service  `json:"services" yaml:"services"`
	Articles  []*Article  `json:"articles" yaml:"articles"`
}

// ArticleSummary is the collapsed form of an article on the blog panel
type ArticleSummary struct {
	ID        int    `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	ImageURL  string `json:"imageUrl"`
	Published string `json:"published"`
	Category  string `json:"category"`
}

// Summary drops the full content
func (a *Article) Summary() ArticleSummary {
	return ArticleSummary{
		ID:        a.ID,
		Slug:      a.Slug,
		Title:     a.Title,
		Excerpt:   a.Excerpt,
		ImageURL:  a.ImageURL,
		Published: a.Published,
		Category:  a.Category,
	}
}
