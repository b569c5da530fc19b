package enums

import "fmt"

// Brand identifies a catalog product brand. The set is closed; product
// creation rejects anything outside it.
type Brand string

const (
	BrandNike   Brand = "nike"
	BrandAdidas Brand = "adidas"
	BrandPuma   Brand = "puma"
	BrandReebok Brand = "reebok"
	BrandSu57   Brand = "su-57"
)

var validBrands = []Brand{
	BrandNike,
	BrandAdidas,
	BrandPuma,
	BrandReebok,
	BrandSu57,
}

// String returns the literal string for the brand.
func (b Brand) String() string {
	return string(b)
}

// IsValid reports whether the brand is known.
func (b Brand) IsValid() bool {
	for _, candidate := range validBrands {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBrand converts raw input into a Brand.
func ParseBrand(value string) (Brand, error) {
	for _, candidate := range validBrands {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid brand %q", value)
}

// Brands returns the known brand identifiers.
func Brands() []Brand {
	return append([]Brand{}, validBrands...)
}
