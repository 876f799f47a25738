package credentials

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/jrsteele09/merchant-portal/sessions"
	"golang.org/x/crypto/bcrypt"
)

// AdminTenantID is the tenant key of the single global admin record.
const AdminTenantID = ""

// Record is one credential entry: the global admin, or the operator login of one tenant.
// Records never leave the auth layer and are never logged.
type Record struct {
	Role         sessions.Role `json:"role"`
	TenantID     string        `json:"tenant_id,omitempty"`
	DisplayName  string        `json:"display_name"`
	UsernameHash string        `json:"-"`
	PasswordHash string        `json:"-"`
}

// NewRecord hashes username and password into a Record. The role follows from tenantID.
func NewRecord(tenantID, displayName, username, password string, cost int) (*Record, error) {
	passwordHash, err := HashPassword(password, cost)
	if err != nil {
		return nil, fmt.Errorf("[credentials NewRecord] %w", err)
	}
	role := sessions.RoleMerchant
	if tenantID == AdminTenantID {
		role = sessions.RoleAdmin
	}
	return &Record{
		Role:         role,
		TenantID:     tenantID,
		DisplayName:  displayName,
		UsernameHash: HashUsername(username),
		PasswordHash: passwordHash,
	}, nil
}

// HashUsername returns the hex SHA-256 of a username.
func HashUsername(username string) string {
	sum := sha256.Sum256([]byte(username))
	return hex.EncodeToString(sum[:])
}

func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Matches reports whether username and password both match the record.
// Both checks always run so a wrong username costs the same as a wrong password.
func (r *Record) Matches(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(HashUsername(username)), []byte(r.UsernameHash)) == 1
	passOK := CheckPasswordHash(password, r.PasswordHash)
	return userOK && passOK
}
