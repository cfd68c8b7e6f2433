package spectra

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
)

// WriteFluxTable writes one space-separated row of flux samples per star,
// full float precision, matching the flat-file layout downstream fitting
// tools consume.
func WriteFluxTable(path string, flux [][]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create flux table: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, row := range flux {
		for i, value := range row {
			if i > 0 {
				if err := w.WriteByte(' '); err != nil {
					return fmt.Errorf("write flux table: %w", err)
				}
			}
			if _, err := w.WriteString(formatSample(value)); err != nil {
				return fmt.Errorf("write flux table: %w", err)
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("write flux table: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush flux table: %w", err)
	}
	return file.Close()
}

// WriteWavelengths writes the shared wavelength vector, one value per line.
func WriteWavelengths(path string, wave []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wavelength file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, value := range wave {
		if _, err := w.WriteString(formatSample(value)); err != nil {
			return fmt.Errorf("write wavelengths: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("write wavelengths: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush wavelengths: %w", err)
	}
	return file.Close()
}

func formatSample(value float64) string {
	return strconv.FormatFloat(value, 'e', 18, 64)
}
