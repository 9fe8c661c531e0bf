// Package seed loads sample experiences and slots into an empty database.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/bookit/pkg/database"
)

// advisoryLockKey serializes seeding across replicas starting together.
const advisoryLockKey int64 = 0x626f6f6b6974

const (
	slotCapacity = 15
	slotDays     = 3
)

var timeLabels = []string{"09:00 AM", "12:00 PM", "03:00 PM", "06:00 PM"}

type experience struct {
	title, location string
	price           decimal.Decimal
	rating          decimal.Decimal
	reviews         int
	image           string
	description     string
	duration        string
	groupSize       string
}

var experiences = []experience{
	{"Sunset Desert Safari", "Dubai, UAE", decimal.NewFromInt(149), decimal.RequireFromString("4.8"), 324,
		"https://images.unsplash.com/photo-1451337516015-6b6e9a44a8a3?w=800",
		"Experience the thrill of dune bashing and traditional Bedouin camp", "6 hours", "Up to 15 people"},
	{"Northern Lights Tour", "Reykjavik, Iceland", decimal.NewFromInt(299), decimal.RequireFromString("4.9"), 512,
		"https://images.unsplash.com/photo-1579033461380-adb47c3eb938?w=800",
		"Chase the magical Aurora Borealis in the Icelandic wilderness", "8 hours", "Up to 12 people"},
	{"Bali Temple & Rice Terraces", "Ubud, Bali", decimal.NewFromInt(89), decimal.RequireFromString("4.7"), 287,
		"https://images.unsplash.com/photo-1537996194471-e657df975ab4?w=800",
		"Discover ancient temples and stunning rice paddies", "5 hours", "Up to 20 people"},
	{"Swiss Alps Hiking", "Interlaken, Switzerland", decimal.NewFromInt(199), decimal.RequireFromString("4.9"), 445,
		"https://images.unsplash.com/photo-1531366936337-7c912a4589a7?w=800",
		"Hike through pristine Alpine landscapes with expert guides", "7 hours", "Up to 10 people"},
}

type Seeder struct {
	log   *slog.Logger
	db    database.DB
	faker *gofakeit.Faker
	now   func() time.Time
}

func New(log *slog.Logger, db database.DB, random uint64) *Seeder {
	return &Seeder{log: log, db: db, faker: gofakeit.New(random), now: time.Now}
}

// Run inserts the sample catalog when the experiences table is empty. Slots
// start tomorrow; each gets a random number of places already taken.
func (s *Seeder) Run(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
		return fmt.Errorf("seed lock: %w", err)
	}

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM experiences`).Scan(&count); err != nil {
		return fmt.Errorf("count experiences: %w", err)
	}
	if count > 0 {
		s.log.Info("seed skipped, catalog not empty", "experiences", count)
		return tx.Commit(ctx)
	}

	y, m, d := s.now().UTC().Date()
	first := time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)

	slots := 0
	for _, e := range experiences {
		var id int64
		err := tx.QueryRow(ctx, `INSERT INTO experiences (title, location, price, rating, reviews, image, description, duration, group_size)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`,
			e.title, e.location, e.price, e.rating, e.reviews, e.image, e.description, e.duration, e.groupSize).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert experience %q: %w", e.title, err)
		}

		for day := range slotDays {
			date := first.AddDate(0, 0, day)
			for _, label := range timeLabels {
				start, err := startTime(label)
				if err != nil {
					return err
				}
				_, err = tx.Exec(ctx, `INSERT INTO slots (experience_id, date, time, start_time, available, total)
					VALUES ($1,$2,$3,$4,$5,$6)`,
					id, date, label, start, s.faker.IntRange(0, slotCapacity-1), slotCapacity)
				if err != nil {
					return fmt.Errorf("insert slot: %w", err)
				}
				slots++
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.log.Info("seeded catalog", "experiences", len(experiences), "slots", slots)
	return nil
}

func startTime(label string) (pgtype.Time, error) {
	t, err := time.Parse("03:04 PM", label)
	if err != nil {
		return pgtype.Time{}, fmt.Errorf("parse slot time %q: %w", label, err)
	}
	d := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	return pgtype.Time{Microseconds: d.Microseconds(), Valid: true}, nil
}
