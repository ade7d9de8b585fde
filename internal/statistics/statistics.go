package statistics

import (
	"fmt"
	"math"
	"sort"
)

// RoundResult is the outcome of one resolved round, summed over every hand
// the player held (more than one after a split)
type RoundResult struct {
	Won        int // hands won, blackjacks included
	Lost       int // hands lost, busts included
	Pushed     int
	Blackjacks int
	AmountWon  int // profit over stake on winning hands
	AmountLost int // stakes forfeited on losing hands
}

// Net returns the round's chip delta
func (r RoundResult) Net() int {
	return r.AmountWon - r.AmountLost
}

// Hands returns the number of hands resolved in the round
func (r RoundResult) Hands() int {
	return r.Won + r.Lost + r.Pushed
}

// Statistics tracks session tallies plus per-round net results for analysis
type Statistics struct {
	HandsPlayed int
	HandsWon    int
	HandsLost   int
	HandsPushed int
	Blackjacks  int
	LargestWin  int // largest total win in a single round
	LargestLoss int // largest total loss in a single round

	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Per-round net, for median/percentile calculation
}

// Record folds a resolved round into the tallies
func (s *Statistics) Record(r RoundResult) {
	s.HandsPlayed += r.Hands()
	s.HandsWon += r.Won
	s.HandsLost += r.Lost
	s.HandsPushed += r.Pushed
	s.Blackjacks += r.Blackjacks
	if r.AmountWon > s.LargestWin {
		s.LargestWin = r.AmountWon
	}
	if r.AmountLost > s.LargestLoss {
		s.LargestLoss = r.AmountLost
	}

	net := float64(r.Net())
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)
}

// Reset zeroes everything
func (s *Statistics) Reset() {
	*s = Statistics{}
}

// Clone returns a deep copy
func (s *Statistics) Clone() Statistics {
	c := *s
	c.Values = append([]float64(nil), s.Values...)
	return c
}

// Merge adds another session's statistics into this one. Largest win and
// loss stay maxima.
func (s *Statistics) Merge(o *Statistics) {
	s.HandsPlayed += o.HandsPlayed
	s.HandsWon += o.HandsWon
	s.HandsLost += o.HandsLost
	s.HandsPushed += o.HandsPushed
	s.Blackjacks += o.Blackjacks
	s.LargestWin = max(s.LargestWin, o.LargestWin)
	s.LargestLoss = max(s.LargestLoss, o.LargestLoss)
	s.Rounds += o.Rounds
	s.SumNet += o.SumNet
	s.SumNet2 += o.SumNet2
	s.Values = append(s.Values, o.Values...)
}

// WinRate returns hands won as a fraction of hands played
func (s *Statistics) WinRate() float64 {
	if s.HandsPlayed == 0 {
		return 0
	}
	return float64(s.HandsWon) / float64(s.HandsPlayed)
}

// Mean returns the average net chips per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of per-round results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of per-round results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median per-round result
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// Validate checks that the tallies are consistent with each other
func (s *Statistics) Validate() error {
	if s.HandsWon+s.HandsLost+s.HandsPushed != s.HandsPlayed {
		return fmt.Errorf("ledger mismatch: won=%d lost=%d pushed=%d played=%d",
			s.HandsWon, s.HandsLost, s.HandsPushed, s.HandsPlayed)
	}
	if s.Blackjacks > s.HandsWon {
		return fmt.Errorf("blackjacks (%d) exceed hands won (%d)", s.Blackjacks, s.HandsWon)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}
	if s.LargestWin < 0 || s.LargestLoss < 0 {
		return fmt.Errorf("negative extremes: win=%d loss=%d", s.LargestWin, s.LargestLoss)
	}
	return nil
}
