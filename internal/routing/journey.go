package routing

import (
	"errors"

	q "helptoheat/internal/questionnaire"
)

// MaxJourneyLength bounds journey walks. The longest real journey is under
// 30 pages.
const MaxJourneyLength = 100

// ErrCouldNotCalculateJourney is returned when the walk hits an unknown page
// or exceeds MaxJourneyLength before reaching the target.
var ErrCouldNotCalculateJourney = errors.New("could not calculate journey")

// PrevPage returns the page before current by replaying the journey from the
// country page, treating the start page as the predecessor of country. It
// returns PageUnknown when current is not reachable under the answers.
func PrevPage(current q.Page, answers q.Answers) q.Page {
	prev := q.PageStart
	page := q.PageCountry

	for steps := 1; steps < MaxJourneyLength; steps++ {
		if page == current {
			return prev
		}
		if page == q.PageUnknown {
			return q.PageUnknown
		}
		prev, page = page, NextPage(page, answers)
	}
	return q.PageUnknown
}

// CalculateJourney returns the pages from `from` to `to`, inclusive at both
// ends. An empty from starts at the start page.
func CalculateJourney(answers q.Answers, to, from q.Page) ([]q.Page, error) {
	if from == "" {
		from = q.PageStart
	}
	journey := []q.Page{from}

	for len(journey) < MaxJourneyLength {
		current := journey[len(journey)-1]
		if current == to {
			return journey, nil
		}
		if current == q.PageUnknown {
			return nil, ErrCouldNotCalculateJourney
		}
		journey = append(journey, NextPage(current, answers))
	}
	return nil, ErrCouldNotCalculateJourney
}

// IsReachable reports whether to can be reached from the start page.
func IsReachable(answers q.Answers, to q.Page) bool {
	_, err := CalculateJourney(answers, to, q.PageStart)
	return err == nil
}
