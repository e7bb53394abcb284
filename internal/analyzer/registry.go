package analyzer

import "fmt"

// NewChecker creates a checker based on the specified variant
func NewChecker(variant string) (Checker, error) {
	switch variant {
	case "mean", "":
		return &MeanChecker{}, nil
	case "pixel":
		return &PixelChecker{Step: 2}, nil
	default:
		return nil, fmt.Errorf("unknown contrast checker: %s", variant)
	}
}
