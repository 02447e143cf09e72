package metrics

import (
	"errors"
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

var errEmptyImages = errors.New("empty images")

func checkPair(original, processed gocv.Mat) error {
	if original.Empty() || processed.Empty() {
		return errEmptyImages
	}
	if original.Rows() != processed.Rows() || original.Cols() != processed.Cols() {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch,
			original.Cols(), original.Rows(), processed.Cols(), processed.Rows())
	}
	return nil
}

// PSNR is the peak signal-to-noise ratio, capped at 100 dB for identical
// inputs.
type PSNR struct{}

func NewPSNR() *PSNR { return &PSNR{} }

func (p *PSNR) Calculate(original, processed gocv.Mat) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}
	mse, err := NewMSE().Calculate(original, processed)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return 100.0, nil
	}
	return min(10*math.Log10(255*255/mse), 100.0), nil
}

func (p *PSNR) GetName() string              { return "PSNR" }
func (p *PSNR) GetDescription() string       { return "Peak Signal-to-Noise Ratio" }
func (p *PSNR) GetRange() (float64, float64) { return 0, 100 }
func (p *PSNR) IsHigherBetter() bool         { return true }

// SSIM is the structural similarity index computed over the whole image.
type SSIM struct{}

func NewSSIM() *SSIM { return &SSIM{} }

func (s *SSIM) Calculate(original, processed gocv.Mat) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	f1, f2 := gocv.NewMat(), gocv.NewMat()
	defer f1.Close()
	defer f2.Close()
	original.ConvertTo(&f1, gocv.MatTypeCV32F)
	processed.ConvertTo(&f2, gocv.MatTypeCV32F)

	const C1, C2 = 6.5025, 58.5225

	mu1 := f1.Mean().Val1
	mu2 := f2.Mean().Val1

	f1Sq, f2Sq, f1f2 := gocv.NewMat(), gocv.NewMat(), gocv.NewMat()
	defer f1Sq.Close()
	defer f2Sq.Close()
	defer f1f2.Close()

	if err := gocv.Multiply(f1, f1, &f1Sq); err != nil {
		return 0, fmt.Errorf("failed to square original: %w", err)
	}
	if err := gocv.Multiply(f2, f2, &f2Sq); err != nil {
		return 0, fmt.Errorf("failed to square processed: %w", err)
	}
	if err := gocv.Multiply(f1, f2, &f1f2); err != nil {
		return 0, fmt.Errorf("failed to multiply images: %w", err)
	}

	sigma1Sq := f1Sq.Mean().Val1 - mu1*mu1
	sigma2Sq := f2Sq.Mean().Val1 - mu2*mu2
	sigma12 := f1f2.Mean().Val1 - mu1*mu2

	num := (2*mu1*mu2 + C1) * (2*sigma12 + C2)
	den := (mu1*mu1 + mu2*mu2 + C1) * (sigma1Sq + sigma2Sq + C2)
	if den == 0 {
		return 1.0, nil
	}
	return num / den, nil
}

func (s *SSIM) GetName() string              { return "SSIM" }
func (s *SSIM) GetDescription() string       { return "Structural Similarity Index" }
func (s *SSIM) GetRange() (float64, float64) { return 0, 1 }
func (s *SSIM) IsHigherBetter() bool         { return true }

// MSE is the mean squared error of the gray levels.
type MSE struct{}

func NewMSE() *MSE { return &MSE{} }

func (m *MSE) Calculate(original, processed gocv.Mat) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	// 8-bit products saturate, so square in float.
	f1, f2 := gocv.NewMat(), gocv.NewMat()
	defer f1.Close()
	defer f2.Close()
	original.ConvertTo(&f1, gocv.MatTypeCV32F)
	processed.ConvertTo(&f2, gocv.MatTypeCV32F)

	diff := gocv.NewMat()
	defer diff.Close()
	if err := gocv.Subtract(f1, f2, &diff); err != nil {
		return 0, fmt.Errorf("failed to subtract images: %w", err)
	}

	diffSq := gocv.NewMat()
	defer diffSq.Close()
	if err := gocv.Multiply(diff, diff, &diffSq); err != nil {
		return 0, fmt.Errorf("failed to square difference: %w", err)
	}

	return diffSq.Mean().Val1, nil
}

func (m *MSE) GetName() string              { return "MSE" }
func (m *MSE) GetDescription() string       { return "Mean Squared Error" }
func (m *MSE) GetRange() (float64, float64) { return 0, 65025 }
func (m *MSE) IsHigherBetter() bool         { return false }

// ContrastRatio is the ratio of gray-level standard deviations, processed
// over original.
type ContrastRatio struct{}

func NewContrastRatio() *ContrastRatio { return &ContrastRatio{} }

func (c *ContrastRatio) Calculate(original, processed gocv.Mat) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	origContrast := stdDev(original)
	if origContrast == 0 {
		return 1.0, nil
	}
	return stdDev(processed) / origContrast, nil
}

func (c *ContrastRatio) GetName() string              { return "Contrast Ratio" }
func (c *ContrastRatio) GetDescription() string       { return "Ratio of contrast preservation" }
func (c *ContrastRatio) GetRange() (float64, float64) { return 0, 2 }
func (c *ContrastRatio) IsHigherBetter() bool         { return true }

// Sharpness is the ratio of Laplacian variances, processed over original.
// Blurs push it below 1, sharpening above.
type Sharpness struct{}

func NewSharpness() *Sharpness { return &Sharpness{} }

func (s *Sharpness) Calculate(original, processed gocv.Mat) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	origSharpness := laplacianVariance(original)
	if origSharpness == 0 {
		return 1.0, nil
	}
	return laplacianVariance(processed) / origSharpness, nil
}

func (s *Sharpness) GetName() string              { return "Sharpness" }
func (s *Sharpness) GetDescription() string       { return "Edge preservation measure" }
func (s *Sharpness) GetRange() (float64, float64) { return 0, 2 }
func (s *Sharpness) IsHigherBetter() bool         { return true }

func stdDev(mat gocv.Mat) float64 {
	mean, dev := gocv.NewMat(), gocv.NewMat()
	defer mean.Close()
	defer dev.Close()
	gocv.MeanStdDev(mat, &mean, &dev)
	return dev.GetDoubleAt(0, 0)
}

func laplacianVariance(mat gocv.Mat) float64 {
	laplacian := gocv.NewMat()
	defer laplacian.Close()
	gocv.Laplacian(mat, &laplacian, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)
	sd := stdDev(laplacian)
	return sd * sd
}
