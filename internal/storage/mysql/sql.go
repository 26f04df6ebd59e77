package mysql

import "strings"

// Null-safe equality: a missing street number matches another missing one.
const apartmentExistsSQL = `
SELECT 1 FROM apartment
WHERE street_number <=> ? AND route <=> ? AND city <=> ?
LIMIT 1`

const insertApartmentSQL = `
INSERT INTO apartment
  (street_number, route, city, province, postal, country, lat, lng, image)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertSuiteSQL = `INSERT INTO suite (apt_id, door) VALUES (?, ?)`

const apartmentColumns = `id, street_number, route, city, province, postal, country, lat, lng, image, created_at`

const getApartmentSQL = `SELECT ` + apartmentColumns + ` FROM apartment WHERE id = ?`

const listSuitesSQL = `SELECT id, apt_id, door, created_at FROM suite WHERE apt_id = ? ORDER BY id`

const listApartmentsSQL = `SELECT ` + apartmentColumns + ` FROM apartment ORDER BY id LIMIT ?`

const listApartmentsByCitySQL = `SELECT ` + apartmentColumns + ` FROM apartment WHERE city = ? ORDER BY id LIMIT ?`

// reviewColumns is the insert order; reviewArgs and scanReview follow it.
var reviewColumns = []string{
	"apt_id", "suite_id", "price", "last_year", "duration",
	"electricity", "internet", "furniture", "heat", "water",
	"bedbugs", "cockroaches", "ants", "mouses", "rats", "wasps", "critter_solved",
	"mold", "moisture", "leak",
	"lamination", "frost", "condensation",
	"sound", "light", "interior", "outdoor", "garden", "common_part",
	"noise", "public_transport", "neighborhood_comment", "neighborhood_note",
	"neighborhood_safety", "accessibility", "parking", "snow_removal",
	"owner_relationship", "owner_communication", "owner_reactivity",
	"global_comment",
}

var insertReviewSQL = "INSERT INTO review (" + strings.Join(reviewColumns, ", ") + ") VALUES (" +
	strings.TrimSuffix(strings.Repeat("?, ", len(reviewColumns)), ", ") + ")"

var listReviewsSQL = "SELECT id, " + strings.Join(reviewColumns, ", ") + ", created_at FROM review" +
	" WHERE apt_id = ? ORDER BY created_at DESC, id DESC LIMIT ?"
