package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopapi/backend/internal/domain/shared"
)

// Address is a value object representing a shipping address.
// It is immutable; all operations return new Address instances.
type Address struct {
	fullName   string
	phone      string
	street     string
	city       string
	state      string
	postalCode string
	country    string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithRecipient sets the recipient name and phone
func WithRecipient(fullName, phone string) AddressOption {
	return func(a *Address) {
		a.fullName = strings.TrimSpace(fullName)
		a.phone = strings.TrimSpace(phone)
	}
}

// WithState sets the state or province
func WithState(state string) AddressOption {
	return func(a *Address) {
		a.state = strings.TrimSpace(state)
	}
}

// WithPostalCode sets the postal code
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) {
		a.postalCode = strings.TrimSpace(postalCode)
	}
}

// NewAddress creates a new Address. Street, city and country are required.
func NewAddress(street, city, country string, opts ...AddressOption) (Address, error) {
	addr := Address{
		street:  strings.TrimSpace(street),
		city:    strings.TrimSpace(city),
		country: strings.TrimSpace(country),
	}
	for _, opt := range opts {
		opt(&addr)
	}

	if err := addr.validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// EmptyAddress returns an empty address
func EmptyAddress() Address {
	return Address{}
}

// FullName returns the recipient name
func (a Address) FullName() string { return a.fullName }

// Phone returns the recipient phone
func (a Address) Phone() string { return a.phone }

// Street returns the street line
func (a Address) Street() string { return a.street }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the state or province
func (a Address) State() string { return a.state }

// PostalCode returns the postal code
func (a Address) PostalCode() string { return a.postalCode }

// Country returns the country
func (a Address) Country() string { return a.country }

// IsEmpty reports whether no address line has been set
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == "" && a.country == ""
}

// String returns a single-line representation of the address
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.street, a.city, a.state, a.postalCode, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Equals reports whether both addresses hold the same values
func (a Address) Equals(other Address) bool {
	return a == other
}

func (a Address) validate() error {
	if a.street == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Street cannot be empty")
	}
	if len(a.street) > 200 {
		return shared.NewDomainError("INVALID_ADDRESS", "Street cannot exceed 200 characters")
	}
	if a.city == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "City cannot be empty")
	}
	if len(a.city) > 100 {
		return shared.NewDomainError("INVALID_ADDRESS", "City cannot exceed 100 characters")
	}
	if a.country == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Country cannot be empty")
	}
	if len(a.postalCode) > 20 {
		return shared.NewDomainError("INVALID_ADDRESS", "Postal code cannot exceed 20 characters")
	}
	return nil
}

// AddressDTO is the wire and storage shape of an Address
type AddressDTO struct {
	FullName   string `json:"full_name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

// ToDTO converts Address to AddressDTO
func (a Address) ToDTO() AddressDTO {
	return AddressDTO{
		FullName:   a.fullName,
		Phone:      a.phone,
		Street:     a.street,
		City:       a.city,
		State:      a.state,
		PostalCode: a.postalCode,
		Country:    a.country,
	}
}

// ToAddress converts AddressDTO back to a validated Address
func (dto AddressDTO) ToAddress() (Address, error) {
	if dto.Street == "" && dto.City == "" && dto.Country == "" {
		return EmptyAddress(), nil
	}
	return NewAddress(dto.Street, dto.City, dto.Country,
		WithRecipient(dto.FullName, dto.Phone),
		WithState(dto.State),
		WithPostalCode(dto.PostalCode),
	)
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToDTO())
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var dto AddressDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	addr, err := dto.ToAddress()
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer; the address is stored as a JSON document
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}
	return json.Unmarshal(data, a)
}
