package dto

type CatalogOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type CatalogResponse struct {
	Genders       []CatalogOption `json:"genders"`
	WorkTypes     []CatalogOption `json:"work_types"`
	Smoking       []CatalogOption `json:"smoking"`
	Drinking      []CatalogOption `json:"drinking"`
	BodyTypes     []CatalogOption `json:"body_types"`
	Interests     []CatalogOption `json:"interests"`
	MatchStatuses []CatalogOption `json:"match_statuses"`
	MaxInterests  int             `json:"max_interests"`
	Limits        CatalogLimits   `json:"limits"`
}

type CatalogLimits struct {
	MinBirthYear int `json:"min_birth_year"`
	MaxBirthYear int `json:"max_birth_year"`
	MinHeight    int `json:"min_height"`
	MaxHeight    int `json:"max_height"`
	MaxBio       int `json:"max_bio"`
}
