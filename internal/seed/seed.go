package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"quad/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumRequests int
	ShouldClean bool
}

var (
	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
		"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
		"Thomas", "Sarah", "Charles", "Karen", "Christopher", "Nancy", "Daniel", "Lisa",
		"Matthew", "Betty", "Anthony", "Margaret", "Mark", "Sandra", "Donald", "Ashley",
		"Steven", "Kimberly", "Paul", "Emily", "Andrew", "Donna", "Joshua", "Michelle",
		"Kenneth", "Dorothy", "Kevin", "Carol", "Brian", "Amanda", "George", "Melissa",
		"Jose", "Virginia", "Adam", "Julie", "Henry", "Joyce", "Nathan", "Victoria",
		"Douglas", "Olivia", "Zachary", "Kelly", "Peter", "Christina", "Kyle", "Lauren",
	}

	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas",
		"Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
		"Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker", "Young",
		"Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores",
		"Green", "Adams", "Nelson", "Baker", "Hall", "Rivera", "Campbell", "Mitchell",
		"Watson", "Brooks", "Chavez", "Wood", "James", "Bennett", "Gray", "Mendoza",
		"Ruiz", "Hughes", "Price", "Alvarez", "Castillo", "Sanders", "Patel", "Myers",
	}
)

// likeRatio and helpRatio control how much engagement gets seeded per
// request, relative to the user pool.
const (
	likeRatio = 0.3
	helpRatio = 0.15
)

// engagementCounts returns how many likes and help offers to seed for a
// single request given the available pool of other users.
func engagementCounts(pool int) (likes, offers int) {
	likes = int(float64(pool) * likeRatio)
	offers = int(float64(pool) * helpRatio)
	if likes > pool {
		likes = pool
	}
	if offers > pool {
		offers = pool
	}
	return likes, offers
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d requests...", opts.NumUsers, opts.NumRequests)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	// Create test users
	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	// Create board requests, at most one per user
	requests, err := createRequests(db, users, opts.NumRequests)
	if err != nil {
		return fmt.Errorf("failed to create requests: %w", err)
	}
	log.Printf("✓ %d requests created", len(requests))

	// Sprinkle likes and help offers from the rest of the pool
	likes, offers, err := createEngagement(db, users, requests)
	if err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Printf("✓ %d likes and %d help offers created", likes, offers)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE request_likes, help_offers, requests, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func generateRandomName() (string, string) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	first := firstNames[r.Intn(len(firstNames))]
	last := lastNames[r.Intn(len(lastNames))]
	return first, last
}

func generateUsername(first, last string) string {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	formats := []string{"%s%s", "%s.%s", "%s_%s", "%s%d", "%s_%d"}
	format := formats[r.Intn(len(formats))]

	switch format {
	case "%s%d", "%s_%d":
		return strings.ToLower(fmt.Sprintf(format, first, r.Intn(1000)))
	default:
		return strings.ToLower(fmt.Sprintf(format, first, last))
	}
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// Always include some specific users for consistency if cleaning
	if count >= 3 {
		baseUsers := []string{"quinn", "dana", "test"}
		for _, u := range baseUsers {
			user := models.User{
				Username: u,
				Email:    fmt.Sprintf("%s@example.com", u),
				Password: string(hashedPassword),
				Bio:      "Here since the first semester.",
				Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", u),
			}
			if err := db.Create(&user).Error; err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		first, last := generateRandomName()
		username := generateUsername(first, last)

		// Ensure uniqueness roughly
		username = fmt.Sprintf("%s%d", username, i)

		user := models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@example.com", username),
			Password: string(hashedPassword),
			Bio:      fmt.Sprintf("%s %s, somewhere between classes.", first, last),
			Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		}

		if err := db.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v", username, err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createRequests(db *gorm.DB, users []models.User, count int) ([]*models.Request, error) {
	// One active request per user: shuffle the pool and take the first N
	// distinct creators instead of sampling with replacement.
	if count > len(users) {
		count = len(users)
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	creators := make([]models.User, len(users))
	copy(creators, users)
	r.Shuffle(len(creators), func(i, j int) { creators[i], creators[j] = creators[j], creators[i] })

	f := NewFactory(db, SeedOptions{MaxDays: 30})
	requests := make([]*models.Request, 0, count)

	for i := 0; i < count; i++ {
		req, err := f.CreateRequest(&creators[i])
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d requests...", i)
		}
	}

	return requests, nil
}

func createEngagement(db *gorm.DB, users []models.User, requests []*models.Request) (int, int, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	f := NewFactory(db, SeedOptions{})

	totalLikes, totalOffers := 0, 0
	for _, req := range requests {
		others := make([]models.User, 0, len(users)-1)
		for _, u := range users {
			if u.ID != req.CreatorID {
				others = append(others, u)
			}
		}
		r.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

		likes, offers := engagementCounts(len(others))
		for i := 0; i < likes; i++ {
			if err := f.CreateLike(&others[i], req); err != nil {
				return totalLikes, totalOffers, err
			}
			totalLikes++
		}
		// helpers overlap with likers on purpose; both rows are legal
		for i := 0; i < offers; i++ {
			if err := f.CreateHelpOffer(&others[i], req); err != nil {
				return totalLikes, totalOffers, err
			}
			totalOffers++
		}
	}

	return totalLikes, totalOffers, nil
}
