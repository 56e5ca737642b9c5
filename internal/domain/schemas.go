package domain

var ProjectSchema = Schema{
	Kind:           ViewProjects,
	Label:          "project",
	CollectionPath: "/api/projects",
	Creatable:      true,
	Updatable:      true,
	Deletable:      true,
	Fields: []Field{
		{Name: "title", Kind: FieldText, Rule: "required"},
		{Name: "description", Kind: FieldText, Rule: "required"},
		{Name: "tags", Kind: FieldList},
		{Name: "liveLink", Kind: FieldText, Rule: "omitempty,url"},
		{Name: "githubLink", Kind: FieldText, Rule: "omitempty,url"},
		{Name: "category", Kind: FieldText, Rule: "required"},
		{Name: "image", Kind: FieldFile},
	},
	Columns: []string{"ID", "TITLE", "CATEGORY", "TAGS"},
}

var ServiceSchema = Schema{
	Kind:           ViewServices,
	Label:          "service",
	CollectionPath: "/api/services",
	Creatable:      true,
	Updatable:      true,
	Deletable:      true,
	Fields: []Field{
		{Name: "title", Kind: FieldText, Rule: "required"},
		{Name: "description", Kind: FieldText, Rule: "required"},
		{Name: "icon", Kind: FieldText},
	},
	Columns: []string{"ID", "TITLE", "ICON"},
}

var ExperienceSchema = Schema{
	Kind:           ViewExperience,
	Label:          "experience",
	CollectionPath: "/api/experience",
	Creatable:      true,
	Updatable:      true,
	Deletable:      true,
	Fields: []Field{
		{Name: "jobTitle", Kind: FieldText, Rule: "required"},
		{Name: "company", Kind: FieldText, Rule: "required"},
		{Name: "duration", Kind: FieldText},
		{Name: "year", Kind: FieldText},
		{Name: "description", Kind: FieldText},
	},
	Columns: []string{"ID", "JOB TITLE", "COMPANY", "YEAR"},
}

var GallerySchema = Schema{
	Kind:           ViewGallery,
	Label:          "gallery item",
	CollectionPath: "/api/gallery",
	Creatable:      true,
	Deletable:      true,
	Fields: []Field{
		{Name: "title", Kind: FieldText, Rule: "required"},
		{Name: "category", Kind: FieldText},
		{Name: "image", Kind: FieldFile, Rule: "required"},
	},
	Columns: []string{"ID", "TITLE", "CATEGORY", "IMAGE"},
}

var ReviewSchema = Schema{
	Kind:             ViewReviews,
	Label:            "review",
	CollectionPath:   "/api/reviews",
	ListPath:         "/api/reviews/all",
	ReadRequiresAuth: true,
	Deletable:        true,
	Secondary:        &SecondaryAction{Name: "approve", Suffix: "approve"},
	Columns:          []string{"ID", "NAME", "RATING", "APPROVED"},
}

var MessageSchema = Schema{
	Kind:             ViewMessages,
	Label:            "message",
	CollectionPath:   "/api/contact",
	ReadRequiresAuth: true,
	Deletable:        true,
	Columns:          []string{"ID", "NAME", "EMAIL", "RECEIVED"},
}

var TechStackSchema = Schema{
	Kind:           ViewTechStack,
	Label:          "tech stack item",
	CollectionPath: "/api/tech-stack",
	Creatable:      true,
	Updatable:      true,
	Deletable:      true,
	Secondary:      &SecondaryAction{Name: "toggle", Suffix: "toggle"},
	SeedPath:       "/api/tech-stack/seed",
	Fields: []Field{
		{Name: "name", Kind: FieldText, Rule: "required"},
		{Name: "category", Kind: FieldText, Rule: "required", Default: "Frontend"},
		{Name: "icon", Kind: FieldFile, Rule: "required"},
	},
	Columns: []string{"ID", "NAME", "CATEGORY", "ENABLED"},
}

var SettingsSchema = Schema{
	Kind:            ViewSettings,
	Label:           "settings",
	CollectionPath:  "/api/settings",
	Updatable:       true,
	AlwaysMultipart: true,
	FullDocument:    true,
	Fields: []Field{
		{Name: "heroTitle", Kind: FieldText},
		{Name: "heroSubtitle", Kind: FieldText},
		{Name: "roles", Kind: FieldText},
		{Name: "bio", Kind: FieldText},
		{Name: "whatsapp", Kind: FieldText},
		{Name: "github", Kind: FieldText},
		{Name: "linkedin", Kind: FieldText},
		{Name: "twitter", Kind: FieldText},
		{Name: "email", Kind: FieldText, Rule: "omitempty,email"},
		{Name: "phone", Kind: FieldText},
		{Name: "footerText", Kind: FieldText},
		{Name: "resume", Kind: FieldFile},
		{Name: "profileImage", Kind: FieldFile},
	},
	Columns: []string{"HERO", "EMAIL", "RESUME", "PROFILE IMAGE"},
}
