package domain

type View string

const (
	ViewLogin      View = "login"
	ViewProjects   View = "projects"
	ViewServices   View = "services"
	ViewExperience View = "experience"
	ViewGallery    View = "gallery"
	ViewReviews    View = "reviews"
	ViewMessages   View = "messages"
	ViewTechStack  View = "tech-stack"
	ViewSettings   View = "settings"
)

// DefaultView is where an authenticated operator lands.
const DefaultView = ViewProjects

func (v View) Protected() bool {
	return v != ViewLogin
}
