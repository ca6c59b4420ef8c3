// Command seed fills the database with a demo store and generated surveys
// for local dashboard and analytics development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"

	"github.com/compra-app/compra-go/config"
	"github.com/compra-app/compra-go/models"
	"github.com/compra-app/compra-go/store"
	"github.com/compra-app/compra-go/utils"
)

var multipleChoiceTexts = []string{
	"How satisfied are you with our product quality?",
	"Which feature do you use most frequently?",
	"How likely are you to recommend us to others?",
	"What is your preferred shopping time?",
	"Which category interests you the most?",
}

var textTexts = []string{
	"What improvements would you suggest for our service?",
	"Please describe your recent shopping experience.",
	"What additional products would you like to see?",
	"How can we better serve your needs?",
	"What made you choose our store?",
}

var ratingTexts = []string{
	"Rate our customer service",
	"How would you rate the checkout experience?",
	"Rate the ease of navigation on our website",
	"Rate our delivery service",
	"How would you rate our price competitiveness?",
}

var choiceOptions = []string{
	"Quality", "Price", "Selection", "Shipping", "Support",
	"Design", "Durability", "Availability",
}

var categories = []string{
	"Apparel", "Electronics", "Home", "Beauty", "Outdoors", "Toys",
}

var palette = []string{"#008060", "#5c6ac4", "#d82c0d", "#ffc453", "#47c1bf"}

// template mirrors the survey archetypes the dashboard demos are built
// around. Distribution weights are cumulative thresholds over [0,1).
type template struct {
	kind         string
	minQuestions int
	maxQuestions int
	choiceWeight float64
	ratingWeight float64
}

var templates = []template{
	{"Customer Satisfaction", 3, 5, 0.4, 0.4},
	{"Product Feedback", 4, 6, 0.5, 0.3},
	{"Website Experience", 3, 4, 0.0, 0.6},
	{"Post-Purchase", 2, 4, 0.3, 0.4},
}

func main() {
	count := flag.Int("count", 100, "number of surveys to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found -- config defaults will be used")
	}

	db, err := store.Open(store.Config{
		SQLitePath:    config.SQLitePath,
		TursoDatabase: config.TursoDatabase,
		TursoToken:    config.TursoToken,
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	rng := rand.New(rand.NewSource(*seed))
	ctx := context.Background()

	owner, err := demoStore(ctx, db)
	if err != nil {
		log.Fatalf("Failed to ensure demo store: %v", err)
	}

	typeCounts := map[string]int{}
	for i := 0; i < *count; i++ {
		survey := generateSurvey(rng, owner.ID)
		if err := db.Surveys.Insert(ctx, survey); err != nil {
			log.Fatalf("Failed to insert survey %d: %v", i+1, err)
		}
		if err := db.Analytics.Init(ctx, survey.ID); err != nil {
			log.Fatalf("Failed to init analytics for survey %d: %v", i+1, err)
		}
		for _, q := range survey.Questions {
			typeCounts[q.Type]++
		}
	}

	log.Printf("Successfully seeded %d surveys for %s", *count, owner.ShopDomain)
	log.Println("Question type distribution:")
	for _, qt := range []string{models.QuestionMultipleChoice, models.QuestionRating, models.QuestionText} {
		log.Printf("  %-15s %d", qt, typeCounts[qt])
	}
}

// demoStore returns the first existing store, creating a test store when the
// database is empty.
func demoStore(ctx context.Context, db *store.Database) (*models.Store, error) {
	existing, err := db.Stores.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	s := &models.Store{
		ID:          utils.NewID(),
		ShopDomain:  "test-store.myshopify.com",
		AccessToken: "test_token",
		Email:       "store@example.com",
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.Stores.Insert(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func generateSurvey(rng *rand.Rand, storeID string) *models.Survey {
	tpl := templates[rng.Intn(len(templates))]
	now := time.Now().UTC()
	createdAt := now.Add(-time.Duration(rng.Intn(365*24)) * time.Hour)
	startDate := createdAt
	endDate := now.Add(time.Duration(rng.Intn(365*24)) * time.Hour)

	min := float64(rng.Intn(101))
	max := min + float64(rng.Intn(401))
	active := rng.Float64() < 0.8
	status := models.StatusDraft
	if active {
		status = models.StatusActive
	}

	return &models.Survey{
		ID:        utils.NewID(),
		StoreID:   storeID,
		Title:     fmt.Sprintf("%s: %s Survey", tpl.kind, pick(rng, categories)),
		Questions: generateQuestions(rng, tpl),
		Active:    active,
		Status:    status,
		Priority:  rng.Intn(10),
		TargetAudience: models.TargetAudience{
			NewCustomers:       rng.Intn(2) == 0,
			ReturningCustomers: rng.Intn(2) == 0,
			CartValue:          &models.FloatRange{Min: &min, Max: &max},
			ProductCategories:  []string{pick(rng, categories), pick(rng, categories)},
		},
		DisplayRules: models.DisplayRules{
			DisplayDelay:       rng.Intn(11),
			DisplayLocation:    []string{"homepage", "checkout"},
			MaxDisplaysPerUser: 1 + rng.Intn(5),
			StartDate:          &startDate,
			EndDate:            &endDate,
		},
		Style: models.SurveyStyle{
			PrimaryColor:    pick(rng, palette),
			BackgroundColor: "#ffffff",
			FontFamily:      "system-ui, sans-serif",
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func generateQuestions(rng *rand.Rand, tpl template) []models.Question {
	n := tpl.minQuestions + rng.Intn(tpl.maxQuestions-tpl.minQuestions+1)
	questions := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		r := rng.Float64()
		var q models.Question
		switch {
		case r < tpl.choiceWeight:
			q = models.Question{
				Text:    pick(rng, multipleChoiceTexts),
				Type:    models.QuestionMultipleChoice,
				Options: sampleOptions(rng, 3+rng.Intn(3)),
			}
		case r < tpl.choiceWeight+tpl.ratingWeight:
			q = models.Question{
				Text:    pick(rng, ratingTexts),
				Type:    models.QuestionRating,
				Options: []string{},
			}
		default:
			q = models.Question{
				Text:    pick(rng, textTexts),
				Type:    models.QuestionText,
				Options: []string{},
			}
		}
		q.ID = utils.NewID()
		q.Required = rng.Intn(2) == 0
		questions = append(questions, q)
	}
	return questions
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func sampleOptions(rng *rand.Rand, n int) []string {
	perm := rng.Perm(len(choiceOptions))
	if n > len(perm) {
		n = len(perm)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = choiceOptions[perm[i]]
	}
	return out
}
