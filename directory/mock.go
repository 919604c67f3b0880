package directory

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Lakshita2255/Voter-auth-project/models"
)

// Age bounds of generated voters, inclusive.
const (
	MockMinAge = 18
	MockMaxAge = 80
)

var (
	firstNames = []string{
		"Rahul", "Priya", "Amit", "Neha", "Rohan", "Anjali", "Vikram", "Divya", "Arjun", "Sneha",
		"Karan", "Pooja", "Sanjay", "Ritu", "Arun", "Meera", "Rajesh", "Kavita", "Suresh", "Anita",
	}
	lastNames = []string{
		"Kumar", "Sharma", "Singh", "Patel", "Verma", "Gupta", "Rao", "Reddy", "Nair", "Iyer",
		"Joshi", "Mehta", "Desai", "Shah", "Pillai", "Menon", "Agarwal", "Saxena", "Pandey", "Yadav",
	}
	cities = []string{
		"Delhi", "Mumbai", "Bangalore", "Chennai", "Kolkata", "Hyderabad", "Pune", "Ahmedabad",
		"Jaipur", "Lucknow", "Chandigarh", "Bhopal", "Indore", "Nagpur", "Patna",
	}
	streets = []string{
		"MG Road", "Park Street", "Brigade Road", "Residency Road", "Mall Road",
		"Station Road", "Main Street", "Gandhi Road", "Nehru Street", "Tagore Avenue",
	}
	states = []string{
		"Delhi", "Maharashtra", "Karnataka", "Tamil Nadu", "West Bengal",
		"Telangana", "Gujarat", "Rajasthan", "UP", "Bihar",
	}
	constituencies = []string{
		"Delhi South", "Mumbai North", "Bangalore Central", "Chennai West",
		"Kolkata East", "Hyderabad", "Pune", "Lucknow",
	}
	pollingStations = []string{
		"Central School", "St. Xavier's School", "City Public School",
		"Government High School", "Community Hall", "Municipal Office",
	}
	phonePrefixes = []string{"9", "8", "7", "6"}
)

const upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func pick(rng *rand.Rand, from []string) string {
	return from[rng.IntN(len(from))]
}

func letters(rng *rand.Rand, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(upperLetters[rng.IntN(len(upperLetters))])
	}
	return b.String()
}

func digits(rng *rand.Rand, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + rng.IntN(10)))
	}
	return b.String()
}

// mockBirthdate returns a date of birth whose age on today is exactly years.
func mockBirthdate(rng *rand.Rand, today time.Time, years int) time.Time {
	base := time.Date(today.Year()-years, today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if base.Month() != today.Month() {
		// Feb 29 in a non-leap year rolled over to Mar 1; use Feb 28
		base = base.AddDate(0, 0, -base.Day())
	}
	// Stay clear of the next birthday and of Feb 29
	back := rng.IntN(360)
	dob := base.AddDate(0, 0, -back)
	if dob.Month() == time.February && dob.Day() == 29 {
		dob = dob.AddDate(0, 0, -1)
	}
	return dob
}

// GenerateVoters builds n plausible, unvoted voters aged MockMinAge..MockMaxAge on now.
// IDs are mock_1..mock_n.
func GenerateVoters(rng *rand.Rand, n int, now time.Time) []models.VoterRecord {
	voters := make([]models.VoterRecord, 0, n)
	for i := 0; i < n; i++ {
		years := MockMinAge + rng.IntN(MockMaxAge-MockMinAge+1)
		dob := mockBirthdate(rng, now, years)

		voters = append(voters, models.VoterRecord{
			ID:          fmt.Sprintf("mock_%d", i+1),
			VoterID:     letters(rng, 3) + digits(rng, 7),
			NationalID:  digits(rng, 12),
			Phone:       pick(rng, phonePrefixes) + digits(rng, 9),
			FullName:    strings.ToUpper(pick(rng, firstNames) + " " + pick(rng, lastNames)),
			DateOfBirth: dob.Format(models.DateLayout),
			Address: fmt.Sprintf("%d %s, %s, %s",
				rng.IntN(999)+1, pick(rng, streets), pick(rng, cities), pick(rng, states)),
			Constituency:   pick(rng, constituencies),
			PollingStation: pick(rng, pollingStations),
		})
	}
	return voters
}
