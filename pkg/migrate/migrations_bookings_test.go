package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mateoreynoso/tripline-backend/pkg/migrate"
)

func TestBookingsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_bookings.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no bookings migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE booking_status AS ENUM",
		"CREATE TYPE payment_status AS ENUM",
		"CREATE TYPE payment_method AS ENUM",
		"CREATE TABLE IF NOT EXISTS bookings",
		"reference TEXT NOT NULL UNIQUE",
		"CHECK (participants >= 1)",
		"CREATE TABLE IF NOT EXISTS booking_participants",
		"CREATE TABLE IF NOT EXISTS booking_payments",
		"gateway_payment_id TEXT UNIQUE",
		"FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS bookings",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSlotReservationsMigrationContainsCapacityGuards(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_slot_reservations.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no slot reservations migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS slot_reservations",
		"PRIMARY KEY (activity_id, event_date, slot_start)",
		"CHECK (reserved_count >= 0)",
		"CHECK (reserved_count <= capacity)",
		"DROP TABLE IF EXISTS slot_reservations",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRatingsMigrationContainsUniqueEventIndex(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_ratings.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no ratings migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_ratings_rater_event",
		"CHECK (event_rating BETWEEN 1 AND 5)",
		"CHECK (score BETWEEN 1 AND 5)",
		"CREATE TABLE IF NOT EXISTS community_ratings",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationFilenamesValidate(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}
