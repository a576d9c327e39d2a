package qkern

import "strings"

/*
Counts maps classical outcome bitstrings to how often they were observed
over a batch of shots. Classical bit 0 is the rightmost character of the
key. Outcomes that never occurred are simply absent and read as zero.
*/
type Counts map[string]int

// Get returns the tally for an outcome, zero when the bin is absent.
func (c Counts) Get(outcome string) int {
	return c[outcome]
}

// Shots returns the total number of recorded outcomes.
func (c Counts) Shots() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Probabilities converts tallies into relative frequencies.
func (c Counts) Probabilities() map[string]float64 {
	total := c.Shots()
	probs := make(map[string]float64, len(c))
	if total == 0 {
		return probs
	}
	for outcome, n := range c {
		probs[outcome] = float64(n) / float64(total)
	}
	return probs
}

// AllZero returns the tally of the all-zero outcome over the given number
// of classical bits.
func (c Counts) AllZero(bits int) int {
	return c.Get(strings.Repeat("0", bits))
}
