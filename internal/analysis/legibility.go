package analysis

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// neutralScore is the fallback when a quality signal cannot be computed.
const neutralScore = 50.0

// Brightness outside this band (percent of full white) is penalized.
const (
	brightnessBandLow  = 30.0
	brightnessBandHigh = 70.0
)

// pageVarianceWarnThreshold flags inconsistent scan quality across the
// pages of one document.
const pageVarianceWarnThreshold = 15.0

// scoreImage computes sharpness, contrast and brightness for one page,
// each normalized to 0-100, and composes them 0.5/0.3/0.2. Large inputs
// are downscaled first so pixel statistics stay cheap and comparable
// across source resolutions.
func scoreImage(img image.Image) (sharpness, contrast, brightness, composite float64) {
	gray := imaging.Grayscale(imaging.Fit(img, 1200, 1200, imaging.Lanczos))
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return neutralScore, neutralScore, neutralScore, neutralScore
	}

	// Single luminance plane; Grayscale leaves R=G=B.
	lum := make([]float64, w*h)
	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(gray.Pix[y*gray.Stride+x*4])
			lum[y*w+x] = v
			sum += v
		}
	}
	mean := sum / float64(w*h)

	// Contrast from the luminance standard deviation.
	var sqDiff float64
	for _, v := range lum {
		d := v - mean
		sqDiff += d * d
	}
	stddev := math.Sqrt(sqDiff / float64(w*h))
	contrast = clampScore(stddev / 64.0 * 100.0)

	// Sharpness from the variance of the Laplacian.
	var lapSum, lapSq float64
	count := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			lap := 4*lum[y*w+x] - lum[(y-1)*w+x] - lum[(y+1)*w+x] - lum[y*w+x-1] - lum[y*w+x+1]
			lapSum += lap
			lapSq += lap * lap
			count++
		}
	}
	lapMean := lapSum / float64(count)
	lapVar := lapSq/float64(count) - lapMean*lapMean
	sharpness = clampScore(lapVar / 250.0 * 100.0)

	brightness = brightnessScore(mean / 255.0 * 100.0)
	composite = 0.5*sharpness + 0.3*contrast + 0.2*brightness
	return sharpness, contrast, brightness, composite
}

// brightnessScore rewards the readable band and penalizes washed-out or
// underexposed pages proportionally to their distance from it.
func brightnessScore(percent float64) float64 {
	switch {
	case percent < brightnessBandLow:
		return clampScore(100.0 - (brightnessBandLow-percent)*3.0)
	case percent > brightnessBandHigh:
		return clampScore(100.0 - (percent-brightnessBandHigh)*3.0)
	default:
		return 100.0
	}
}

// scorePages averages the per-page composites and warns when quality
// varies widely between pages.
func scorePages(pages []image.Image) Legibility {
	if len(pages) == 0 {
		return Legibility{Score: neutralScore, Sharpness: neutralScore, Contrast: neutralScore, Brightness: neutralScore}
	}

	leg := Legibility{}
	var sumSharp, sumContrast, sumBright, sumScore float64
	for _, page := range pages {
		s, c, b, composite := scoreImage(page)
		sumSharp += s
		sumContrast += c
		sumBright += b
		sumScore += composite
		leg.PageScores = append(leg.PageScores, round1(composite))
	}

	n := float64(len(pages))
	leg.Sharpness = round1(sumSharp / n)
	leg.Contrast = round1(sumContrast / n)
	leg.Brightness = round1(sumBright / n)
	leg.Score = round1(sumScore / n)

	if stddevOf(leg.PageScores) > pageVarianceWarnThreshold {
		leg.Warnings = append(leg.Warnings, "inconsistent scan quality across pages")
	}
	return leg
}

func stddevOf(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff / float64(len(values)))
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
