// Command seed wipes the campground tables and refills them with generated
// listings. Destructive; requires --confirm. The schema must already exist
// (run the server once first).
package main

import (
	"database/sql"
	_ "embed"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

//go:embed cities.yaml
var citiesYAML []byte

type cityFile struct {
	Cities []City `yaml:"cities"`
}

type City struct {
	City      string  `yaml:"city"`
	State     string  `yaml:"state"`
	Longitude float64 `yaml:"longitude"`
	Latitude  float64 `yaml:"latitude"`
}

var descriptors = []string{
	"Forest", "Ancient", "Petrified", "Roaring", "Cascade", "Tumbling",
	"Silent", "Redwood", "Bullfrog", "Maple", "Misty", "Elk", "Grizzly",
	"Ocean", "Sky", "Dusty", "Diamond",
}

var places = []string{
	"Flats", "Village", "Canyon", "Pond", "Group Camp", "Horse Camp",
	"Ghost Town", "Camp", "Backcountry", "River", "Creek", "Creekside",
	"Bay", "Spring", "Sands", "Cliffs", "Hollow",
}

const seedDescription = "Pitch your tent under tall trees, wake up to birdsong and spend the day on the trails. Water and firewood available on site."

var (
	dsn     = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	count   = flag.Int("count", 50, "Number of campgrounds to create")
	confirm = flag.Bool("confirm", false, "Required: seeding truncates the campground tables")
)

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func sample[T any](s []T) T { return s[rand.Intn(len(s))] }

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}
	if !*confirm {
		fatalf("refusing to run destructive seed without --confirm")
	}

	var cf cityFile
	if err := yaml.Unmarshal(citiesYAML, &cf); err != nil {
		fatalf("parsing cities.yaml: %v", err)
	}
	if len(cf.Cities) == 0 {
		fatalf("cities.yaml contains no cities")
	}

	conn, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("opening database: %v", err)
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`TRUNCATE camp.reviews, camp.campground_images, camp.campgrounds`); err != nil {
		fatalf("truncate: %v", err)
	}

	authorID, err := ensureSeedUser(tx)
	if err != nil {
		fatalf("seed user: %v", err)
	}

	for i := 0; i < *count; i++ {
		city := sample(cf.Cities)
		campID := uuid.NewString()
		title := fmt.Sprintf("%s %s", sample(descriptors), sample(places))
		location := fmt.Sprintf("%s, %s", city.City, city.State)
		price := float64(rand.Intn(20) + 10)

		_, err := tx.Exec(`
			INSERT INTO camp.campgrounds (id, title, location, description, price, lng, lat, author_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		`, campID, title, location, seedDescription, price, city.Longitude, city.Latitude, authorID, time.Now())
		if err != nil {
			fatalf("insert campground: %v", err)
		}

		imageID := uuid.NewString()
		_, err = tx.Exec(`
			INSERT INTO camp.campground_images (id, campground_id, url, key, position)
			VALUES ($1, $2, $3, $4, 0)
		`, imageID, campID, fmt.Sprintf("https://picsum.photos/seed/%s/800/600", imageID), "seed/"+imageID)
		if err != nil {
			fatalf("insert image: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}

	fmt.Printf("Seeded %d campgrounds\n", *count)
}

// ensureSeedUser returns the id of the "seed" user, creating it (password:
// "password") when missing.
func ensureSeedUser(tx *sql.Tx) (string, error) {
	var id string
	err := tx.QueryRow(`SELECT user_id FROM app_auth.users WHERE username = 'seed'`).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	id = uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO app_auth.users (user_id, username, email, hashed_password, created_at)
		VALUES ($1, 'seed', 'seed@pitchpoint.local', $2, $3)
	`, id, string(hashed), time.Now())
	return id, err
}
