package data

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/meditationhr/models"
)

// FallbackSize is the number of rows generated when the real dataset is unavailable.
const FallbackSize = 200

var fallbackTechniques = []string{"Chi", "Kundalini", "Spontaneous", "Metronomic", "Athlete"}

// Synthetic generates n random rows over a fixed space of techniques, genders and ten
// participants. Times cycle through 0..19 seconds and bpm lies between 50 and 80.
// The same seed always yields the same rows.
func Synthetic(seed uint64, n int) []models.RawRecord {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	records := make([]models.RawRecord, 0, n)
	for i := 0; i < n; i++ {
		gender := models.GenderFemale
		if rng.Float64() > 0.5 {
			gender = models.GenderMale
		}
		records = append(records, models.RawRecord{
			PersonID:  fmt.Sprintf("P%d", rng.IntN(10)+1),
			Technique: fallbackTechniques[rng.IntN(len(fallbackTechniques))],
			Gender:    gender,
			Age:       strconv.Itoa(rng.IntN(40) + 20),
			Time:      strconv.Itoa(i % 20),
			BPM:       strconv.FormatFloat(rng.Float64()*30+50, 'f', 2, 64),
		})
	}
	return records
}
