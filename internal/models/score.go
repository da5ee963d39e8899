// ABOUTME: Night score categories derived from asleep duration.
// ABOUTME: Coarse Good/Okay/Bad buckets plus a six-step granular scale.
package models

// NightScore is the coarse sleep-quality bucket for one night.
type NightScore string

const (
	NightGood NightScore = "Good"
	NightOkay NightScore = "Okay"
	NightBad  NightScore = "Bad"
)

// NightScores lists the coarse scores in display order.
var NightScores = []NightScore{NightGood, NightOkay, NightBad}

// NightScoreFor buckets an asleep duration in minutes.
func NightScoreFor(minutes float64) NightScore {
	switch {
	case minutes < 6*60:
		return NightBad
	case minutes < 7*60:
		return NightOkay
	default:
		return NightGood
	}
}

// GranularNightScore is the six-step sleep-quality scale.
type GranularNightScore string

const (
	GranularTerrible GranularNightScore = "Terrible"
	GranularVeryBad  GranularNightScore = "Very Bad"
	GranularBad      GranularNightScore = "Bad"
	GranularOkay     GranularNightScore = "Okay"
	GranularGood     GranularNightScore = "Good"
	GranularGreat    GranularNightScore = "Great"
)

// GranularNightScores lists the granular scores from worst to best.
var GranularNightScores = []GranularNightScore{
	GranularTerrible, GranularVeryBad, GranularBad,
	GranularOkay, GranularGood, GranularGreat,
}

// GranularNightScoreFor buckets an asleep duration in minutes on the granular scale.
func GranularNightScoreFor(minutes float64) GranularNightScore {
	switch {
	case minutes < 4*60:
		return GranularTerrible
	case minutes < 5*60:
		return GranularVeryBad
	case minutes < 6*60:
		return GranularBad
	case minutes < 7*60:
		return GranularOkay
	case minutes < 8*60:
		return GranularGood
	default:
		return GranularGreat
	}
}
