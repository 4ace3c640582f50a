package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/snacktrack/snacktrack-api/httpx"
	"github.com/snacktrack/snacktrack-api/nutrition"
)

type ProfileCreate struct {
	Age                 int      `json:"age"`
	Weight              float64  `json:"weight"`
	Height              *float64 `json:"height"`
	Gender              string   `json:"gender"`
	ActivityLevel       string   `json:"activity_level"`
	Goal                string   `json:"goal"`
	PreferredCuisines   []string `json:"preferred_cuisines"`
	Allergies           []string `json:"allergies"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	HealthConditions    []string `json:"health_conditions"`
	Region              string   `json:"region"`
}

func (p ProfileCreate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Age, validation.Required, validation.Min(1), validation.Max(120)),
		validation.Field(&p.Weight, validation.Required, validation.Min(0.001)),
		validation.Field(&p.Height, validation.NilOrNotEmpty, validation.Min(30.0), validation.Max(272.0)),
		validation.Field(&p.Gender, validation.Required),
		validation.Field(&p.ActivityLevel, validation.Required),
		validation.Field(&p.Goal, validation.Required),
		validation.Field(&p.Region, validation.Required),
	)
}

type Profile struct {
	ID string `json:"id"`
	ProfileCreate
	BMR  *int `json:"bmr,omitempty"`
	TDEE *int `json:"tdee,omitempty"`
}

// ProfileHandler serves /profiles. Profiles are not persisted.
type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

func (h *ProfileHandler) Register(rg gin.IRouter) {
	root(rg, http.MethodPost, httpx.Wrap(h.create))
	root(rg, http.MethodGet, httpx.Wrap(h.list))
	rg.POST("/energy", httpx.Wrap(h.energy))
}

func (h *ProfileHandler) create(_ *gin.Context, req *ProfileCreate) (*Profile, error) {
	p := Profile{ID: DemoProfileID, ProfileCreate: *req}
	p.normalize()
	if req.Height != nil {
		est := nutrition.Estimate(nutrition.EnergyInput{
			Age:           req.Age,
			Weight:        req.Weight,
			Height:        *req.Height,
			Gender:        req.Gender,
			ActivityLevel: req.ActivityLevel,
			Goal:          req.Goal,
		})
		p.BMR, p.TDEE = &est.BMR, &est.TDEE
	}
	return &p, nil
}

// normalize turns missing lists into empty ones.
func (p *Profile) normalize() {
	for _, list := range []*[]string{&p.PreferredCuisines, &p.Allergies, &p.DietaryRestrictions, &p.HealthConditions} {
		if *list == nil {
			*list = []string{}
		}
	}
}

func (h *ProfileHandler) list(_ *gin.Context, _ *Empty) (*[]Profile, error) {
	return &[]Profile{{
		ID: DemoProfileID,
		ProfileCreate: ProfileCreate{
			Age:                 30,
			Weight:              70,
			Gender:              "female",
			ActivityLevel:       "moderate",
			Goal:                "weight_loss",
			PreferredCuisines:   []string{"mediterranean"},
			Allergies:           []string{"peanuts"},
			DietaryRestrictions: []string{"vegetarian"},
			HealthConditions:    []string{"hypertension"},
			Region:              "Southern Europe",
		},
	}}, nil
}

func (h *ProfileHandler) energy(_ *gin.Context, req *nutrition.EnergyInput) (*nutrition.EnergyEstimate, error) {
	est := nutrition.Estimate(*req)
	return &est, nil
}
