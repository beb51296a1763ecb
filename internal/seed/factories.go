// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"quad/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tune the factory's behaviour.
type SeedOptions struct {
	// DryRun builds entities without touching the database.
	DryRun bool
	// SkipBcrypt stores a plaintext password instead of hashing. Dev fast mode only.
	SkipBcrypt bool
	// MaxDays bounds the backdated created_at spread for requests.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Factory{db: db, opts: opts, rng: rng, nextID: 1000}
}

var requestTemplates = []struct {
	title       string
	description string
	tags        []string
}{
	{"Need a ride to the airport", "Flying home Friday afternoon and the shuttle is sold out. Gas money covered.", []string{"ride", "travel"}},
	{"Calc II study partner wanted", "Midterm is in two weeks and the series material is not clicking. Library or union, your pick.", []string{"math", "study-group"}},
	{"Help moving a couch", "One flight of stairs, maybe twenty minutes of lifting. Pizza on me.", []string{"moving", "heavy-lifting"}},
	{"Borrow a graphing calculator", "Mine died the night before the stats exam. Will return it the same day.", []string{"stats", "lend"}},
	{"Proofread my lab report", "Eight pages of orgo. I mostly need a second pair of eyes on the analysis section.", []string{"chemistry", "writing"}},
	{"Cat sitter for the weekend", "Two feedings a day, she mostly sleeps. Off-campus but near the bus line.", []string{"pets", "weekend"}},
	{"Partner for 5k training", "Trying to get under 25 minutes before the spring run. Mornings preferred.", []string{"running", "fitness"}},
	{"Spanish conversation practice", "Intermediate level, happy to trade for English practice. Coffee's on me.", []string{"language", "spanish"}},
	{"Jump start needed", "Left the lights on in lot C overnight. I have cables, just need a car.", []string{"car", "urgent-ish"}},
	{"Notes from Tuesday's bio lecture", "Was out sick and the slides don't cover what was said. Will swap for my chem notes.", []string{"biology", "notes"}},
	{"Someone to split a CSA box", "Way too many vegetables for one person. Looking for a weekly split partner.", []string{"food", "share"}},
	{"Debug my linked list assignment", "Segfault on delete and I've been staring at it for three hours. CS201.", []string{"programming", "cs"}},
}

var cities = []string{
	"Madison", "Ann Arbor", "Columbus", "Berkeley", "Austin",
	"Chapel Hill", "Boulder", "Ithaca", "Eugene", "Amherst",
}

var urgencies = []string{
	models.UrgencyLow, models.UrgencyLow, models.UrgencyMedium,
	models.UrgencyMedium, models.UrgencyHigh,
}

// BuildRequest constructs a request struct for the given creator without
// persisting it. Useful for batching and dry runs.
func (f *Factory) BuildRequest(creator *models.User, overrides ...func(*models.Request)) *models.Request {
	tpl := requestTemplates[f.rng.Intn(len(requestTemplates))]

	req := &models.Request{
		CreatorID:   creator.ID,
		Title:       tpl.title,
		Description: tpl.description,
		Tags:        append([]string(nil), tpl.tags...),
		Urgency:     urgencies[f.rng.Intn(len(urgencies))],
	}

	if f.rng.Float32() < 0.3 {
		req.IsRemote = true
		req.Location = models.RemoteLocation
	} else {
		req.City = cities[f.rng.Intn(len(cities))]
		req.Location = req.City
	}

	// realistic created_at spread, some old enough to be prune candidates
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	req.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(req)
	}
	return req
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateRequest constructs and persists a board request for the given
// creator. Each user may hold only one; callers pick distinct creators.
func (f *Factory) CreateRequest(creator *models.User, overrides ...func(*models.Request)) (*models.Request, error) {
	req := f.BuildRequest(creator, overrides...)

	if f.opts.DryRun {
		f.nextID++
		req.ID = f.nextID
		log.Printf("[dry-run] CreateRequest: creator=%d title=%q urgency=%s", req.CreatorID, req.Title, req.Urgency)
		return req, nil
	}

	if err := f.db.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// CreateLike persists a like from `user` on `req`.
func (f *Factory) CreateLike(user *models.User, req *models.Request) error {
	like := &models.RequestLike{
		UserID:    user.ID,
		RequestID: req.ID,
	}
	return f.db.Create(like).Error
}

// CreateHelpOffer persists a help offer from `helper` on `req`.
func (f *Factory) CreateHelpOffer(helper *models.User, req *models.Request) error {
	offer := &models.HelpOffer{
		HelperID:  helper.ID,
		RequestID: req.ID,
	}
	return f.db.Create(offer).Error
}
