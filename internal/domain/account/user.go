package account

import (
	"regexp"
	"strings"
	"time"

	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role represents a capability group a user belongs to
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleVendor Role = "vendor"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	return r == RoleBuyer || r == RoleVendor
}

// Password cost for bcrypt
const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User represents a buyer or vendor account.
// Email is the login identifier. Role membership grants capabilities
// checked per request; buyer is the default role.
type User struct {
	shared.BaseAggregateRoot
	Email        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	FirstName    string `gorm:"type:varchar(50);not null"`
	LastName     string `gorm:"type:varchar(50);not null"`
	FullName     string `gorm:"type:varchar(100)"`
	Phone        string `gorm:"type:varchar(20)"`
	AddressLine1 string `gorm:"type:varchar(50)"`
	AddressLine2 string `gorm:"type:varchar(50)"`
	Town         string `gorm:"type:varchar(50)"`
	City         string `gorm:"type:varchar(50)"`
	Postcode     string `gorm:"type:varchar(10)"`
	PasswordHash string `gorm:"type:varchar(100);not null"`
	Roles        []Role `gorm:"-"` // loaded by the repository from user_roles
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserRole represents role membership for a user
type UserRole struct {
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_role,priority:1"`
	Role      Role      `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_role,priority:2"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserRole) TableName() string {
	return "user_roles"
}

// NewUser creates a new user with the given credentials.
// The full name is derived from first and last name.
func NewUser(email, firstName, lastName, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FirstName:         firstName,
		LastName:          lastName,
		FullName:          firstName + " " + lastName,
		PasswordHash:      hash,
		Roles:             make([]Role, 0),
	}, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword validates and rehashes the user's password
func (u *User) ChangePassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// GrantRole adds a role to the user if not already present
func (u *User) GrantRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if u.HasRole(role) {
		return nil
	}

	u.Roles = append(u.Roles, role)
	return nil
}

// HasRole reports whether the user holds the given role
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsVendor reports whether the user is in the vendor role
func (u *User) IsVendor() bool {
	return u.HasRole(RoleVendor)
}

// IsBuyer reports whether the user is in the buyer role
func (u *User) IsBuyer() bool {
	return u.HasRole(RoleBuyer)
}

// UpdateProfile updates the user's name, phone, and signup address fields
func (u *User) UpdateProfile(firstName, lastName, phone, line1, line2, town, city, postcode string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}

	u.FirstName = firstName
	u.LastName = lastName
	u.FullName = firstName + " " + lastName
	u.Phone = strings.TrimSpace(phone)
	u.AddressLine1 = line1
	u.AddressLine2 = line2
	u.Town = town
	u.City = city
	u.Postcode = postcode
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// HasSignupAddress reports whether enough address fields were supplied at
// signup to seed a default Address record
func (u *User) HasSignupAddress() bool {
	return u.AddressLine1 != "" || u.City != "" || u.Postcode != ""
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if len(email) > 100 || !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
