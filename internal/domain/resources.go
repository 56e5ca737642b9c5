package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Project struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	LiveLink    string     `json:"liveLink,omitempty"`
	GithubLink  string     `json:"githubLink,omitempty"`
	Category    string     `json:"category"`
	Image       string     `json:"image,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

func (p Project) EntityID() string { return p.ID }

func (p Project) DraftFields() map[string]string {
	return map[string]string{
		"title":       p.Title,
		"description": p.Description,
		"tags":        JoinList(p.Tags),
		"liveLink":    p.LiveLink,
		"githubLink":  p.GithubLink,
		"category":    p.Category,
	}
}

func (p Project) RowCells() []string {
	return []string{p.ID, p.Title, p.Category, strings.Join(p.Tags, ",")}
}

type Service struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

func (s Service) EntityID() string { return s.ID }

func (s Service) DraftFields() map[string]string {
	return map[string]string{
		"title":       s.Title,
		"description": s.Description,
		"icon":        s.Icon,
	}
}

func (s Service) RowCells() []string {
	return []string{s.ID, s.Title, s.Icon}
}

type Experience struct {
	ID          string     `json:"_id"`
	JobTitle    string     `json:"jobTitle"`
	Company     string     `json:"company"`
	Duration    string     `json:"duration,omitempty"`
	Year        string     `json:"year,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

func (e Experience) EntityID() string { return e.ID }

func (e Experience) DraftFields() map[string]string {
	return map[string]string{
		"jobTitle":    e.JobTitle,
		"company":     e.Company,
		"duration":    e.Duration,
		"year":        e.Year,
		"description": e.Description,
	}
}

func (e Experience) RowCells() []string {
	return []string{e.ID, e.JobTitle, e.Company, e.Year}
}

type GalleryItem struct {
	ID        string     `json:"_id"`
	Title     string     `json:"title"`
	Category  string     `json:"category,omitempty"`
	Image     string     `json:"image,omitempty"`
	Type      string     `json:"type,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (g GalleryItem) EntityID() string { return g.ID }

func (g GalleryItem) DraftFields() map[string]string {
	return map[string]string{
		"title":    g.Title,
		"category": g.Category,
	}
}

func (g GalleryItem) RowCells() []string {
	return []string{g.ID, g.Title, g.Category, g.Image}
}

type Review struct {
	ID         string     `json:"_id"`
	Name       string     `json:"name"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	IsApproved bool       `json:"isApproved"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

func (r Review) EntityID() string { return r.ID }

func (r Review) RowCells() []string {
	return []string{r.ID, r.Name, strconv.Itoa(r.Rating), fmt.Sprintf("%t", r.IsApproved)}
}

type Message struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Message   string     `json:"message"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (m Message) EntityID() string { return m.ID }

func (m Message) RowCells() []string {
	received := ""
	if m.CreatedAt != nil {
		received = m.CreatedAt.Format(time.DateOnly)
	}
	return []string{m.ID, m.Name, m.Email, received}
}

type TechStackItem struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Icon      string     `json:"icon,omitempty"`
	IconType  string     `json:"iconType,omitempty"`
	IsEnabled bool       `json:"isEnabled"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (t TechStackItem) EntityID() string { return t.ID }

func (t TechStackItem) DraftFields() map[string]string {
	return map[string]string{
		"name":     t.Name,
		"category": t.Category,
	}
}

func (t TechStackItem) RowCells() []string {
	return []string{t.ID, t.Name, t.Category, fmt.Sprintf("%t", t.IsEnabled)}
}

type SiteSettings struct {
	ID           string `json:"_id,omitempty"`
	HeroTitle    string `json:"heroTitle"`
	HeroSubtitle string `json:"heroSubtitle"`
	Roles        string `json:"roles"`
	Bio          string `json:"bio"`
	ResumeLink   string `json:"resumeLink"`
	Whatsapp     string `json:"whatsapp"`
	Github       string `json:"github"`
	Linkedin     string `json:"linkedin"`
	Twitter      string `json:"twitter"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ProfileImage string `json:"profileImage"`
	FooterText   string `json:"footerText"`
}

func (s SiteSettings) EntityID() string { return s.ID }

// DraftFields leaves out the hosted resume and profile image URLs; those are
// file fields and always start empty in a draft.
func (s SiteSettings) DraftFields() map[string]string {
	return map[string]string{
		"heroTitle":    s.HeroTitle,
		"heroSubtitle": s.HeroSubtitle,
		"roles":        s.Roles,
		"bio":          s.Bio,
		"whatsapp":     s.Whatsapp,
		"github":       s.Github,
		"linkedin":     s.Linkedin,
		"twitter":      s.Twitter,
		"email":        s.Email,
		"phone":        s.Phone,
		"footerText":   s.FooterText,
	}
}

func (s SiteSettings) RowCells() []string {
	return []string{s.HeroTitle, s.Email, s.ResumeLink, s.ProfileImage}
}

func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// SplitList splits a comma separated edit string, trimming blanks.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		items = append(items, trimmed)
	}
	return items
}
