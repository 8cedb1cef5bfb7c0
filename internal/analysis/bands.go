// SPDX-License-Identifier: MIT
package analysis

import "math"

// FrequencyBand is a named frequency range [LowHz, HighHz).
type FrequencyBand struct {
	Name   string  `json:"name"`
	LowHz  float64 `json:"lowHz"`
	HighHz float64 `json:"highHz"`
}

// BandEnergy is the mean power of one band in dB.
type BandEnergy struct {
	Name string  `json:"name"`
	DB   float64 `json:"db"`
}

// SpeechBands splits the spectrum at the usual formant regions.
var SpeechBands = []FrequencyBand{
	{Name: "voicing", LowHz: 50, HighHz: 300},
	{Name: "f1", LowHz: 300, HighHz: 1000},
	{Name: "f2", LowHz: 1000, HighHz: 2500},
	{Name: "f3", LowHz: 2500, HighHz: 4000},
	{Name: "fricative", LowHz: 4000, HighHz: 8000},
}

// BandEnergies averages the latest power spectrum of provider over each band.
// Bands with no bins report the dB floor.
func BandEnergies(provider SpectrumProvider, bands []FrequencyBand) []BandEnergy {
	power := provider.GetPower()

	sums := make([]float64, len(bands))
	counts := make([]int, len(bands))
	for i, p := range power {
		freq := provider.GetFrequencyForBin(i)
		for j, band := range bands {
			if freq >= band.LowHz && freq < band.HighHz {
				sums[j] += p
				counts[j]++
				break
			}
		}
	}

	out := make([]BandEnergy, len(bands))
	for j, band := range bands {
		mean := 0.0
		if counts[j] > 0 {
			mean = sums[j] / float64(counts[j])
		}
		out[j] = BandEnergy{Name: band.Name, DB: 10 * math.Log10(mean+1e-12)}
	}
	return out
}
