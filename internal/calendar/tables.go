package calendar

import (
	"slices"

	"github.com/myrjola/fightcamp/internal/vocab"
)

//nolint:gochecknoglobals // lookup table.
var buckets = []int{2, 4, 6, 8, 10, 12, 16}

//nolint:gochecknoglobals // lookup table.
var baseTables = map[vocab.Sport]map[int]Split[float64]{
	vocab.SportMMA: {
		2:  {GPP: 0, SPP: 0.50, TAPER: 0.50},
		4:  {GPP: 0.25, SPP: 0.50, TAPER: 0.25},
		6:  {GPP: 0.35, SPP: 0.50, TAPER: 0.15},
		8:  {GPP: 0.42, SPP: 0.46, TAPER: 0.12},
		10: {GPP: 0.44, SPP: 0.43, TAPER: 0.13},
		12: {GPP: 0.45, SPP: 0.40, TAPER: 0.15},
		16: {GPP: 0.50, SPP: 0.38, TAPER: 0.12},
	},
	vocab.SportBoxing: {
		2:  {GPP: 0, SPP: 0.50, TAPER: 0.50},
		4:  {GPP: 0.25, SPP: 0.50, TAPER: 0.25},
		6:  {GPP: 0.33, SPP: 0.50, TAPER: 0.17},
		8:  {GPP: 0.40, SPP: 0.47, TAPER: 0.13},
		10: {GPP: 0.42, SPP: 0.45, TAPER: 0.13},
		12: {GPP: 0.43, SPP: 0.42, TAPER: 0.15},
		16: {GPP: 0.48, SPP: 0.40, TAPER: 0.12},
	},
	vocab.SportMuayThai: {
		2:  {GPP: 0, SPP: 0.50, TAPER: 0.50},
		4:  {GPP: 0.25, SPP: 0.50, TAPER: 0.25},
		6:  {GPP: 0.33, SPP: 0.52, TAPER: 0.15},
		8:  {GPP: 0.40, SPP: 0.48, TAPER: 0.12},
		10: {GPP: 0.42, SPP: 0.45, TAPER: 0.13},
		12: {GPP: 0.44, SPP: 0.42, TAPER: 0.14},
		16: {GPP: 0.48, SPP: 0.40, TAPER: 0.12},
	},
	vocab.SportKickboxing: {
		2:  {GPP: 0, SPP: 0.50, TAPER: 0.50},
		4:  {GPP: 0.25, SPP: 0.50, TAPER: 0.25},
		6:  {GPP: 0.33, SPP: 0.52, TAPER: 0.15},
		8:  {GPP: 0.40, SPP: 0.47, TAPER: 0.13},
		10: {GPP: 0.42, SPP: 0.45, TAPER: 0.13},
		12: {GPP: 0.43, SPP: 0.43, TAPER: 0.14},
		16: {GPP: 0.48, SPP: 0.40, TAPER: 0.12},
	},
}

// closestBucket picks the table length nearest to camp; ties go to the shorter camp.
func closestBucket(camp int) int {
	return slices.MinFunc(buckets, func(a, b int) int {
		da, db := abs(a-camp), abs(b-camp)
		if da != db {
			return da - db
		}
		return a - b
	})
}

func baseRatios(sport vocab.Sport, camp int) Split[float64] {
	table, ok := baseTables[sport]
	if !ok {
		table = baseTables[vocab.SportMMA]
	}
	return table[closestBucket(camp)]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
